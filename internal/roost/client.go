package roost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API defines the remote operations perch needs from the Roost server.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	Profile(ctx context.Context, userID string) (Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (Profile, error)
	Follow(ctx context.Context, targetID string) error
	Unfollow(ctx context.Context, targetID string) error
	Followers(ctx context.Context, userID string) ([]User, error)
	Following(ctx context.Context, userID string) ([]User, error)
	Suggested(ctx context.Context) ([]User, error)
	Popular(ctx context.Context) ([]User, error)
	AllUsers(ctx context.Context) ([]User, error)
	SearchUsers(ctx context.Context, query string) ([]User, error)
	Feed(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, content string) (Post, error)
	Like(ctx context.Context, postID string) error
	Unlike(ctx context.Context, postID string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the Roost HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultServer    = "127.0.0.1:8364"
	defaultUserAgent = "perch/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided host:port or URL value.
func NewClient(server string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Profile retrieves a user's profile projection. Returns ErrNotFound when
// the server has no profile for the id; callers degrade to locally known
// identity fields instead of blocking the screen.
func (c *Client) Profile(ctx context.Context, userID string) (Profile, error) {
	if c == nil {
		return Profile{}, fmt.Errorf("client is nil")
	}
	var payload profilePayload
	if err := c.do(ctx, http.MethodGet, "/api/profile/"+url.PathEscape(userID), nil, &payload); err != nil {
		return Profile{}, err
	}
	return payload.normalize(), nil
}

// UpdateProfile submits changed profile fields. The response is the
// server's canonical projection; callers must replace their local copy
// wholesale rather than merge field by field.
func (c *Client) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (Profile, error) {
	if c == nil {
		return Profile{}, fmt.Errorf("client is nil")
	}
	update, err := ValidateProfileUpdate(update)
	if err != nil {
		return Profile{}, err
	}
	var payload profilePayload
	if err := c.do(ctx, http.MethodPut, "/api/profile/"+url.PathEscape(userID), update, &payload); err != nil {
		return Profile{}, err
	}
	return payload.normalize(), nil
}

// Follow creates a follow edge toward targetID. A duplicate follow
// rejected by the server is not surfaced as an error.
func (c *Client) Follow(ctx context.Context, targetID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(targetID)+"/follow", nil, nil)
	return ignoreConflict(err)
}

// Unfollow removes a follow edge. Removing an edge that does not exist is
// not surfaced as an error.
func (c *Client) Unfollow(ctx context.Context, targetID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(targetID)+"/follow", nil, nil)
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}
	return ignoreConflict(err)
}

// Followers lists the users following userID.
func (c *Client) Followers(ctx context.Context, userID string) ([]User, error) {
	return c.fetchUsers(ctx, "/api/users/"+url.PathEscape(userID)+"/followers", nil)
}

// Following lists the users userID follows.
func (c *Client) Following(ctx context.Context, userID string) ([]User, error) {
	return c.fetchUsers(ctx, "/api/users/"+url.PathEscape(userID)+"/following", nil)
}

// Suggested lists users the server recommends to the current viewer.
func (c *Client) Suggested(ctx context.Context) ([]User, error) {
	return c.fetchUsers(ctx, "/api/users/suggested", nil)
}

// Popular lists the default set shown when there is nothing to search for.
func (c *Client) Popular(ctx context.Context) ([]User, error) {
	return c.fetchUsers(ctx, "/api/users/popular", nil)
}

// AllUsers lists every known user. Windowing for display is a view
// concern, not a server contract.
func (c *Client) AllUsers(ctx context.Context) ([]User, error) {
	return c.fetchUsers(ctx, "/api/users", nil)
}

// SearchUsers finds users matching query. A blank or whitespace query
// means "show the default popular set" and is rewritten here, before
// dispatch, so no view has to special-case it.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return c.Popular(ctx)
	}
	values := url.Values{}
	values.Set("q", trimmed)
	return c.fetchUsers(ctx, "/api/users/search", values)
}

// Feed retrieves the viewer's timeline of posts from followed users.
func (c *Client) Feed(ctx context.Context) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload feedPayload
	if err := c.do(ctx, http.MethodGet, "/api/feed", nil, &payload); err != nil {
		return nil, err
	}
	return normalizePosts(payload.Posts), nil
}

// CreatePost publishes a new post and returns the server's canonical copy.
func (c *Client) CreatePost(ctx context.Context, content string) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	content, err := ValidatePostContent(content)
	if err != nil {
		return Post{}, err
	}
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var payload postPayload
	if err := c.do(ctx, http.MethodPost, "/api/posts", body, &payload); err != nil {
		return Post{}, err
	}
	return payload.normalize(), nil
}

// Like marks a post as liked by the current viewer.
func (c *Client) Like(ctx context.Context, postID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", nil, nil)
	return ignoreConflict(err)
}

// Unlike removes the viewer's like from a post.
func (c *Client) Unlike(ctx context.Context, postID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID)+"/like", nil, nil)
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}
	return ignoreConflict(err)
}

func (c *Client) fetchUsers(ctx context.Context, path string, values url.Values) ([]User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: path}
	if values != nil {
		rel.RawQuery = values.Encode()
	}
	var payload userListPayload
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return normalizeUsers(payload.Users), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: method + " " + rel.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return &RemoteError{Op: method + " " + rel.Path, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ignoreConflict drops duplicate-edge rejections so follow/unfollow stay
// idempotent from the caller's perspective.
func ignoreConflict(err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) && re.Status == http.StatusConflict {
		return nil
	}
	return err
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
