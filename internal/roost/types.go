package roost

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// User is the canonical identity shape used across perch.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	JoinedAt  string `json:"joined_at,omitempty"`
}

// Handle returns the user's @-prefixed username for display.
func (u User) Handle() string {
	if u.Username == "" {
		return ""
	}
	return "@" + u.Username
}

// ParsedJoinedAt returns the join timestamp as time.Time when possible.
func (u User) ParsedJoinedAt() time.Time {
	return parseTime(u.JoinedAt)
}

// Post is a single feed entry. Author is a weak reference; a post whose
// author the server no longer knows still renders with a placeholder.
type Post struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Author    User   `json:"author"`
	Likes     int    `json:"likes"`
	Replies   int    `json:"replies"`
	LikedByMe bool   `json:"liked"`
}

// ParsedCreatedAt returns the creation timestamp as time.Time when possible.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// Profile is the server's per-user projection: the user plus relationship
// counts. Older deployments omit the count fields; zero is the fallback.
type Profile struct {
	User      User `json:"-"`
	Followers int  `json:"followers_count"`
	Following int  `json:"following_count"`
}

// ProfileUpdate carries the mutable profile fields for an update call.
// Empty fields are still sent; the server response is authoritative.
type ProfileUpdate struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// userPayload mirrors the wire shape for a user. Servers send either an
// explicit avatar_url or a bare avatar_seed; normalization resolves the
// seed before the rest of the app sees it.
type userPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	AvatarURL  string `json:"avatar_url"`
	AvatarSeed string `json:"avatar_seed"`
	JoinedAt   string `json:"joined_at"`
}

// profilePayload mirrors the /api/profile/{id} response.
type profilePayload struct {
	userPayload
	Followers int `json:"followers_count"`
	Following int `json:"following_count"`
}

// userListPayload mirrors the list/search endpoints.
type userListPayload struct {
	Users []userPayload `json:"users"`
}

// postPayload mirrors a feed post on the wire.
type postPayload struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"createdAt"`
	Author    userPayload `json:"author"`
	Likes     int         `json:"likes"`
	Replies   int         `json:"replies"`
	Liked     bool        `json:"liked"`
}

// feedPayload mirrors /api/feed.
type feedPayload struct {
	Posts []postPayload `json:"posts"`
}

const avatarBaseURL = "https://api.dicebear.com/9.x/shapes/svg"

func (p userPayload) normalize() User {
	avatar := strings.TrimSpace(p.AvatarURL)
	if avatar == "" {
		if seed := strings.TrimSpace(p.AvatarSeed); seed != "" {
			avatar = fmt.Sprintf("%s?seed=%s", avatarBaseURL, url.QueryEscape(seed))
		}
	}
	return User{
		ID:        p.ID,
		Name:      p.Name,
		Username:  p.Username,
		Email:     p.Email,
		Bio:       p.Bio,
		AvatarURL: avatar,
		JoinedAt:  p.JoinedAt,
	}
}

func (p profilePayload) normalize() Profile {
	return Profile{
		User:      p.userPayload.normalize(),
		Followers: p.Followers,
		Following: p.Following,
	}
}

func (p postPayload) normalize() Post {
	return Post{
		ID:        p.ID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		Author:    p.Author.normalize(),
		Likes:     p.Likes,
		Replies:   p.Replies,
		LikedByMe: p.Liked,
	}
}

func normalizeUsers(payloads []userPayload) []User {
	if len(payloads) == 0 {
		return nil
	}
	users := make([]User, 0, len(payloads))
	for _, p := range payloads {
		users = append(users, p.normalize())
	}
	return users
}

func normalizePosts(payloads []postPayload) []Post {
	if len(payloads) == 0 {
		return nil
	}
	posts := make([]Post, 0, len(payloads))
	for _, p := range payloads {
		posts = append(posts, p.normalize())
	}
	return posts
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
