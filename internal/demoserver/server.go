package demoserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server holds the in-memory social graph behind the demo API.
type Server struct {
	mu       sync.Mutex
	viewerID string
	users    map[string]*userRecord
	order    []string
	follows  map[string]map[string]struct{}
	posts    []*postRecord
	nextPost int
}

type userRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Bio        string `json:"bio,omitempty"`
	AvatarSeed string `json:"avatar_seed,omitempty"`
	JoinedAt   string `json:"joined_at,omitempty"`
}

type postRecord struct {
	ID        string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	Replies   int
	Likers    map[string]struct{}
}

// New builds a seeded demo server whose requests are attributed to
// viewerID. The viewer is added to the graph if the seed data does not
// already contain it.
func New(viewerID string) *Server {
	s := &Server{
		viewerID: viewerID,
		users:    make(map[string]*userRecord),
		follows:  make(map[string]map[string]struct{}),
	}
	s.seed()
	if _, ok := s.users[viewerID]; !ok {
		s.addUser(&userRecord{
			ID:         viewerID,
			Name:       "Demo User",
			Username:   "demo",
			AvatarSeed: viewerID,
			JoinedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return s
}

// Router returns the chi handler serving the demo API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile/{userID}", s.handleProfile)
		r.Put("/profile/{userID}", s.handleUpdateProfile)

		r.Get("/users", s.handleAllUsers)
		r.Get("/users/popular", s.handlePopular)
		r.Get("/users/suggested", s.handleSuggested)
		r.Get("/users/search", s.handleSearch)
		r.Get("/users/{userID}/followers", s.handleFollowers)
		r.Get("/users/{userID}/following", s.handleFollowing)
		r.Post("/users/{userID}/follow", s.handleFollow)
		r.Delete("/users/{userID}/follow", s.handleUnfollow)

		r.Get("/feed", s.handleFeed)
		r.Post("/posts", s.handleCreatePost)
		r.Post("/posts/{postID}/like", s.handleLike)
		r.Delete("/posts/{postID}/like", s.handleUnlike)
	})

	return r
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[chi.URLParam(r, "userID")]
	if !ok {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, s.profilePayload(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Name) > 50 {
		writeError(w, http.StatusUnprocessableEntity, "name must be 1-50 characters")
		return
	}
	if len(body.Bio) > 160 {
		writeError(w, http.StatusUnprocessableEntity, "bio must be at most 160 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[chi.URLParam(r, "userID")]
	if !ok {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	u.Name = body.Name
	u.Bio = body.Bio
	writeJSON(w, http.StatusOK, s.profilePayload(u))
}

func (s *Server) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, userList(s.allUsers()))
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, userList(s.popularUsers()))
}

func (s *Server) handleSuggested(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var suggested []*userRecord
	for _, id := range s.order {
		if id == s.viewerID {
			continue
		}
		if _, following := s.follows[s.viewerID][id]; following {
			continue
		}
		suggested = append(suggested, s.users[id])
	}
	writeJSON(w, http.StatusOK, userList(suggested))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		// Blank query means the default popular set, same as the client's
		// own fallback, so both sides agree on the contract.
		writeJSON(w, http.StatusOK, userList(s.popularUsers()))
		return
	}

	var matches []*userRecord
	for _, id := range s.order {
		u := s.users[id]
		if strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Username), query) {
			matches = append(matches, u)
		}
	}
	writeJSON(w, http.StatusOK, userList(matches))
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := chi.URLParam(r, "userID")
	if _, ok := s.users[userID]; !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	var followers []*userRecord
	for _, id := range s.order {
		if _, ok := s.follows[id][userID]; ok {
			followers = append(followers, s.users[id])
		}
	}
	writeJSON(w, http.StatusOK, userList(followers))
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := chi.URLParam(r, "userID")
	if _, ok := s.users[userID]; !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	var following []*userRecord
	for _, id := range s.order {
		if _, ok := s.follows[userID][id]; ok {
			following = append(following, s.users[id])
		}
	}
	writeJSON(w, http.StatusOK, userList(following))
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	targetID := chi.URLParam(r, "userID")
	if _, ok := s.users[targetID]; !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if targetID == s.viewerID {
		writeError(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}
	if _, ok := s.follows[s.viewerID][targetID]; ok {
		writeError(w, http.StatusConflict, "already following")
		return
	}
	if s.follows[s.viewerID] == nil {
		s.follows[s.viewerID] = make(map[string]struct{})
	}
	s.follows[s.viewerID][targetID] = struct{}{}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	targetID := chi.URLParam(r, "userID")
	if _, ok := s.users[targetID]; !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if _, ok := s.follows[s.viewerID][targetID]; !ok {
		writeError(w, http.StatusNotFound, "not following")
		return
	}
	delete(s.follows[s.viewerID], targetID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var posts []any
	for _, p := range s.feedPosts() {
		posts = append(posts, s.postPayload(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" || len(body.Content) > 500 {
		writeError(w, http.StatusUnprocessableEntity, "content must be 1-500 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPost++
	p := &postRecord{
		ID:        fmt.Sprintf("p%d", s.nextPost),
		AuthorID:  s.viewerID,
		Content:   body.Content,
		CreatedAt: time.Now().UTC(),
		Likers:    make(map[string]struct{}),
	}
	s.posts = append(s.posts, p)
	writeJSON(w, http.StatusCreated, s.postPayload(p))
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(chi.URLParam(r, "postID"))
	if p == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if _, ok := p.Likers[s.viewerID]; ok {
		writeError(w, http.StatusConflict, "already liked")
		return
	}
	p.Likers[s.viewerID] = struct{}{}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(chi.URLParam(r, "postID"))
	if p == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if _, ok := p.Likers[s.viewerID]; !ok {
		writeError(w, http.StatusNotFound, "not liked")
		return
	}
	delete(p.Likers, s.viewerID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) allUsers() []*userRecord {
	users := make([]*userRecord, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, s.users[id])
	}
	return users
}

func (s *Server) popularUsers() []*userRecord {
	users := s.allUsers()
	counts := make(map[string]int, len(users))
	for _, set := range s.follows {
		for id := range set {
			counts[id]++
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		return counts[users[i].ID] > counts[users[j].ID]
	})
	if len(users) > 5 {
		users = users[:5]
	}
	return users
}

func (s *Server) feedPosts() []*postRecord {
	var posts []*postRecord
	for _, p := range s.posts {
		if p.AuthorID == s.viewerID {
			posts = append(posts, p)
			continue
		}
		if _, following := s.follows[s.viewerID][p.AuthorID]; following {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (s *Server) findPost(id string) *postRecord {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) profilePayload(u *userRecord) map[string]any {
	followers := 0
	for _, set := range s.follows {
		if _, ok := set[u.ID]; ok {
			followers++
		}
	}
	payload := userMap(u)
	payload["followers_count"] = followers
	payload["following_count"] = len(s.follows[u.ID])
	return payload
}

func (s *Server) postPayload(p *postRecord) map[string]any {
	payload := map[string]any{
		"id":        p.ID,
		"content":   p.Content,
		"createdAt": p.CreatedAt.Format(time.RFC3339),
		"likes":     len(p.Likers),
		"replies":   p.Replies,
	}
	if _, ok := p.Likers[s.viewerID]; ok {
		payload["liked"] = true
	}
	if author, ok := s.users[p.AuthorID]; ok {
		payload["author"] = userMap(author)
	} else {
		// Author may have been removed from the graph; the client is
		// expected to render a placeholder, not fail.
		payload["author"] = map[string]any{"id": p.AuthorID}
	}
	return payload
}

func userMap(u *userRecord) map[string]any {
	payload := map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"username": u.Username,
	}
	if u.Email != "" {
		payload["email"] = u.Email
	}
	if u.Bio != "" {
		payload["bio"] = u.Bio
	}
	if u.AvatarSeed != "" {
		payload["avatar_seed"] = u.AvatarSeed
	}
	if u.JoinedAt != "" {
		payload["joined_at"] = u.JoinedAt
	}
	return payload
}

func (s *Server) addUser(u *userRecord) {
	s.users[u.ID] = u
	s.order = append(s.order, u.ID)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
