package roost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultServer {
		t.Fatalf("host = %q, want %q", u.Host, defaultServer)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndNormalizes(t *testing.T) {
	t.Parallel()

	var gotSearchQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/profile/u-1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "u-1", "name": "Ada", "username": "ada",
				"avatar_seed":     "ada",
				"followers_count": 3, "following_count": 2,
			})
		case "/api/users/search":
			gotSearchQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(map[string]any{
				"users": []map[string]any{{"id": "u-2", "name": "Bo", "username": "bo"}},
			})
		case "/api/feed":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"posts": []map[string]any{{
					"id": "p-1", "content": "hi", "createdAt": "2026-01-02T03:04:05Z",
					"author": map[string]any{"id": "u-1", "name": "Ada", "username": "ada"},
					"likes":  2, "replies": 1, "liked": true,
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	profile, err := c.Profile(ctx, "u-1")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.Followers != 3 || profile.Following != 2 {
		t.Fatalf("profile counts = %d/%d, want 3/2", profile.Followers, profile.Following)
	}
	if profile.User.AvatarURL != avatarBaseURL+"?seed=ada" {
		t.Fatalf("avatar seed not resolved: %q", profile.User.AvatarURL)
	}

	users, err := c.SearchUsers(ctx, "  bo  ")
	if err != nil {
		t.Fatalf("SearchUsers returned error: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u-2" {
		t.Fatalf("SearchUsers = %#v, want single u-2", users)
	}
	if got := gotSearchQuery.Get("q"); got != "bo" {
		t.Fatalf("search query = %q, want trimmed %q", got, "bo")
	}

	posts, err := c.Feed(ctx)
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(posts) != 1 || !posts[0].LikedByMe || posts[0].Likes != 2 {
		t.Fatalf("Feed = %#v, want one liked post", posts)
	}
	if posts[0].ParsedCreatedAt().IsZero() {
		t.Fatalf("createdAt did not parse: %q", posts[0].CreatedAt)
	}

	if gotUserAgent != defaultUserAgent {
		t.Fatalf("user agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
}

func TestClient_BlankSearchReturnsPopular(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{{"id": "u-3", "name": "Cleo", "username": "cleo"}},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	users, err := c.SearchUsers(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchUsers returned error: %v", err)
	}
	if gotPath != "/api/users/popular" {
		t.Fatalf("blank search hit %q, want /api/users/popular", gotPath)
	}
	if len(users) != 1 {
		t.Fatalf("users = %#v, want one", users)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profile/missing":
			http.NotFound(w, r)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Profile(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing profile error = %v, want ErrNotFound", err)
	}

	_, err = c.Feed(ctx)
	var re *RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusInternalServerError {
		t.Fatalf("feed error = %v, want RemoteError with status 500", err)
	}
}

func TestClient_FollowAndLikeAreIdempotent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/users/u-2/follow" && r.Method == http.MethodPost:
			http.Error(w, "already following", http.StatusConflict)
		case r.URL.Path == "/api/users/u-2/follow" && r.Method == http.MethodDelete:
			http.NotFound(w, r)
		case r.URL.Path == "/api/posts/p-1/like" && r.Method == http.MethodPost:
			http.Error(w, "already liked", http.StatusConflict)
		case r.URL.Path == "/api/posts/p-1/like" && r.Method == http.MethodDelete:
			http.NotFound(w, r)
		default:
			http.Error(w, "unexpected", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	if err := c.Follow(ctx, "u-2"); err != nil {
		t.Fatalf("duplicate Follow returned error: %v", err)
	}
	if err := c.Unfollow(ctx, "u-2"); err != nil {
		t.Fatalf("absent Unfollow returned error: %v", err)
	}
	if err := c.Like(ctx, "p-1"); err != nil {
		t.Fatalf("duplicate Like returned error: %v", err)
	}
	if err := c.Unlike(ctx, "p-1"); err != nil {
		t.Fatalf("absent Unlike returned error: %v", err)
	}
}

func TestClient_UpdateProfileSendsBodyAndValidates(t *testing.T) {
	t.Parallel()

	var gotMethod string
	var gotBody ProfileUpdate
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "u-1", "name": gotBody.Name, "username": "ada", "bio": gotBody.Bio,
			"followers_count": 1, "following_count": 1,
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	profile, err := c.UpdateProfile(ctx, "u-1", ProfileUpdate{Name: "  Ada L  ", Bio: "hi"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q, want PUT", gotMethod)
	}
	if gotBody.Name != "Ada L" {
		t.Fatalf("sent name = %q, want trimmed %q", gotBody.Name, "Ada L")
	}
	if profile.User.Name != "Ada L" {
		t.Fatalf("profile name = %q, want %q", profile.User.Name, "Ada L")
	}

	_, err = c.UpdateProfile(ctx, "u-1", ProfileUpdate{Name: ""})
	if !IsValidation(err) {
		t.Fatalf("empty name error = %v, want ValidationError", err)
	}
}
