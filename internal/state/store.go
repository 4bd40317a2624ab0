package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/perchapp/perch/internal/roost"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Posts      []roost.Post
	Following  map[string]struct{}
	Profile    ProfileView
	HasProfile bool
	Loading    bool
	LastError  error
}

// IsFollowing reports whether the viewer follows the given user id.
func (s Snapshot) IsFollowing(userID string) bool {
	_, ok := s.Following[userID]
	return ok
}

// Store coordinates updates to the snapshot and fans them out to
// subscribed views. Mutating methods notify all subscribers synchronously
// before returning.
type Store struct {
	mu          sync.RWMutex
	posts       []roost.Post
	following   map[string]struct{}
	profile     ProfileView
	hasProfile  bool
	loading     bool
	lastErr     error
	nextLocalID uint64
	listeners   []func(Snapshot)
}

// Subscribe registers a listener invoked after every mutation. Listeners
// run on the mutating goroutine and must not call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns an independent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SetPosts replaces the full post collection after a feed fetch.
func (s *Store) SetPosts(posts []roost.Post) {
	s.mu.Lock()
	s.posts = clonePosts(posts)
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(fns, snap)
}

// AddPost prepends a new post with a locally generated identifier so it is
// visible before any remote confirmation. The returned post carries the
// temporary id the mutation controller reconciles later.
func (s *Store) AddPost(content string, author roost.User) roost.Post {
	s.mu.Lock()
	s.nextLocalID++
	post := roost.Post{
		ID:        fmt.Sprintf("local-%d", s.nextLocalID),
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Author:    author,
	}
	s.posts = append([]roost.Post{post}, s.posts...)
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(fns, snap)
	return post
}

// RemovePost deletes a post by id. Used to roll back a failed submit.
func (s *Store) RemovePost(postID string) bool {
	s.mu.Lock()
	removed := false
	for i, p := range s.posts {
		if p.ID == postID {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			removed = true
			break
		}
	}
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	if removed {
		notify(fns, snap)
	}
	return removed
}

// ReplacePost swaps the post with the given id for the server's canonical
// copy, preserving feed order.
func (s *Store) ReplacePost(postID string, canonical roost.Post) bool {
	s.mu.Lock()
	replaced := false
	for i, p := range s.posts {
		if p.ID == postID {
			s.posts[i] = canonical
			replaced = true
			break
		}
	}
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	if replaced {
		notify(fns, snap)
	}
	return replaced
}

// ToggleLike flips the viewer's like on a post and adjusts the count by
// exactly one. Unknown ids are a no-op; a toggle never creates a post and
// the count never goes negative. Returns the resulting liked flag and
// whether the post was found.
func (s *Store) ToggleLike(postID string) (liked, ok bool) {
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		if s.posts[i].LikedByMe {
			s.posts[i].LikedByMe = false
			if s.posts[i].Likes > 0 {
				s.posts[i].Likes--
			}
		} else {
			s.posts[i].LikedByMe = true
			s.posts[i].Likes++
		}
		liked = s.posts[i].LikedByMe
		ok = true
		break
	}
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	if ok {
		notify(fns, snap)
	}
	return liked, ok
}

// Follow adds a user to the follow-set. Returns false when the edge was
// already present, keeping membership idempotent.
func (s *Store) Follow(userID string) bool {
	s.mu.Lock()
	if s.following == nil {
		s.following = make(map[string]struct{})
	}
	_, exists := s.following[userID]
	if !exists {
		s.following[userID] = struct{}{}
	}
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	if !exists {
		notify(fns, snap)
	}
	return !exists
}

// Unfollow removes a user from the follow-set. Returns false when the
// edge was already absent.
func (s *Store) Unfollow(userID string) bool {
	s.mu.Lock()
	_, exists := s.following[userID]
	if exists {
		delete(s.following, userID)
	}
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	if exists {
		notify(fns, snap)
	}
	return exists
}

// SetFollowing replaces the whole follow-set after a full fetch.
func (s *Store) SetFollowing(userIDs []string) {
	s.mu.Lock()
	s.following = make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		s.following[id] = struct{}{}
	}
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(fns, snap)
}

// SetProfile replaces the current profile projection wholesale. Partial
// merges are deliberately unsupported so local state cannot drift from
// the server's canonical shape.
func (s *Store) SetProfile(profile ProfileView) {
	s.mu.Lock()
	s.profile = profile
	s.hasProfile = true
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(fns, snap)
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(fns, snap)
}

// SetError records a user-visible error.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	s.lastErr = err
	snap, fns := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(fns, snap)
}

// ClearError dismisses the current error, if any.
func (s *Store) ClearError() {
	s.SetError(nil)
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Posts:      clonePosts(s.posts),
		Profile:    s.profile,
		HasProfile: s.hasProfile,
		Loading:    s.loading,
	}
	if len(s.following) > 0 {
		snap.Following = make(map[string]struct{}, len(s.following))
		for id := range s.following {
			snap.Following[id] = struct{}{}
		}
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}

func notify(fns []func(Snapshot), snap Snapshot) {
	for _, fn := range fns {
		fn(snap)
	}
}

func clonePosts(posts []roost.Post) []roost.Post {
	if len(posts) == 0 {
		return nil
	}
	dup := make([]roost.Post, len(posts))
	copy(dup, posts)
	return dup
}
