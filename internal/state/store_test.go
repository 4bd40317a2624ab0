package state

import (
	"errors"
	"testing"

	"github.com/perchapp/perch/internal/roost"
)

func TestStore_SnapshotIsIndependentCopy(t *testing.T) {
	t.Parallel()

	store := &Store{}
	store.SetPosts([]roost.Post{{ID: "p-1", Content: "one", Likes: 1}})
	store.SetFollowing([]string{"u-2"})

	snap := store.Snapshot()
	snap.Posts[0].Content = "mutated"
	snap.Following["u-3"] = struct{}{}

	fresh := store.Snapshot()
	if fresh.Posts[0].Content != "one" {
		t.Fatalf("post content = %q, want store unaffected by snapshot mutation", fresh.Posts[0].Content)
	}
	if fresh.IsFollowing("u-3") {
		t.Fatal("follow-set affected by snapshot mutation")
	}
}

func TestStore_AddPostVisibleImmediately(t *testing.T) {
	t.Parallel()

	store := &Store{}
	store.SetPosts([]roost.Post{{ID: "p-1", Content: "existing"}})

	local := store.AddPost("hello", roost.User{ID: "u-1", Name: "Ada"})
	if local.ID == "" || local.ID == "p-1" {
		t.Fatalf("local id = %q, want fresh temporary id", local.ID)
	}

	snap := store.Snapshot()
	if len(snap.Posts) != 2 || snap.Posts[0].ID != local.ID {
		t.Fatalf("posts = %#v, want new post prepended", snap.Posts)
	}
	if snap.Posts[0].CreatedAt == "" {
		t.Fatal("local post has no timestamp")
	}

	// Distinct temporary ids across submissions.
	other := store.AddPost("again", roost.User{ID: "u-1"})
	if other.ID == local.ID {
		t.Fatalf("temporary ids collide: %q", other.ID)
	}
}

func TestStore_ReplaceAndRemovePost(t *testing.T) {
	t.Parallel()

	store := &Store{}
	local := store.AddPost("draft", roost.User{ID: "u-1"})

	canonical := roost.Post{ID: "p-9", Content: "draft", Likes: 0}
	if !store.ReplacePost(local.ID, canonical) {
		t.Fatal("ReplacePost did not find local post")
	}
	snap := store.Snapshot()
	if snap.Posts[0].ID != "p-9" {
		t.Fatalf("post id = %q, want canonical p-9", snap.Posts[0].ID)
	}

	if store.ReplacePost(local.ID, canonical) {
		t.Fatal("ReplacePost matched an id that no longer exists")
	}

	if !store.RemovePost("p-9") {
		t.Fatal("RemovePost did not find post")
	}
	if len(store.Snapshot().Posts) != 0 {
		t.Fatal("post not removed")
	}
	if store.RemovePost("p-9") {
		t.Fatal("RemovePost removed an absent post")
	}
}

func TestStore_ToggleLikeAdjustsByExactlyOne(t *testing.T) {
	t.Parallel()

	store := &Store{}
	store.SetPosts([]roost.Post{{ID: "p-1", Likes: 5}})

	liked, ok := store.ToggleLike("p-1")
	if !ok || !liked {
		t.Fatalf("first toggle = (%v, %v), want liked", liked, ok)
	}
	if got := store.Snapshot().Posts[0].Likes; got != 6 {
		t.Fatalf("likes = %d, want 6", got)
	}

	liked, ok = store.ToggleLike("p-1")
	if !ok || liked {
		t.Fatalf("second toggle = (%v, %v), want unliked", liked, ok)
	}
	if got := store.Snapshot().Posts[0].Likes; got != 5 {
		t.Fatalf("likes = %d, want original 5 after like/unlike pair", got)
	}

	// Unknown ids are a no-op; a toggle never creates a post.
	if _, ok := store.ToggleLike("nope"); ok {
		t.Fatal("toggle on unknown id reported found")
	}
	if len(store.Snapshot().Posts) != 1 {
		t.Fatal("toggle on unknown id changed the collection")
	}
}

func TestStore_ToggleLikeNeverGoesNegative(t *testing.T) {
	t.Parallel()

	store := &Store{}
	store.SetPosts([]roost.Post{{ID: "p-1", Likes: 0, LikedByMe: true}})

	if liked, _ := store.ToggleLike("p-1"); liked {
		t.Fatal("toggle on liked post should unlike")
	}
	if got := store.Snapshot().Posts[0].Likes; got != 0 {
		t.Fatalf("likes = %d, want clamped at 0", got)
	}
}

func TestStore_FollowUnfollowIdempotent(t *testing.T) {
	t.Parallel()

	store := &Store{}
	if !store.Follow("u-2") {
		t.Fatal("first Follow reported no change")
	}
	if store.Follow("u-2") {
		t.Fatal("duplicate Follow reported a change")
	}
	if !store.Snapshot().IsFollowing("u-2") {
		t.Fatal("follow edge missing")
	}

	if !store.Unfollow("u-2") {
		t.Fatal("Unfollow reported no change")
	}
	if store.Unfollow("u-2") {
		t.Fatal("duplicate Unfollow reported a change")
	}
	if store.Snapshot().IsFollowing("u-2") {
		t.Fatal("follow edge still present")
	}
}

func TestStore_SubscribersNotifiedSynchronously(t *testing.T) {
	t.Parallel()

	store := &Store{}
	var seen []int
	store.Subscribe(func(snap Snapshot) {
		seen = append(seen, len(snap.Posts))
	})

	store.AddPost("one", roost.User{ID: "u-1"})
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("notifications after AddPost = %v, want [1] before the call returns", seen)
	}

	store.SetPosts(nil)
	if len(seen) != 2 || seen[1] != 0 {
		t.Fatalf("notifications after SetPosts = %v, want [1 0]", seen)
	}

	// No-op mutations stay silent.
	store.Unfollow("absent")
	if len(seen) != 2 {
		t.Fatalf("no-op mutation notified: %v", seen)
	}
}

func TestStore_SetProfileReplacesWholesale(t *testing.T) {
	t.Parallel()

	store := &Store{}
	store.SetProfile(ProfileView{User: roost.User{ID: "u-1", Name: "Ada", Bio: "old"}, Followers: 5})

	store.SetProfile(ProfileView{User: roost.User{ID: "u-1", Name: "Ada L"}})
	snap := store.Snapshot()
	if !snap.HasProfile {
		t.Fatal("HasProfile = false after SetProfile")
	}
	if snap.Profile.User.Bio != "" || snap.Profile.Followers != 0 {
		t.Fatalf("profile = %#v, want old fields gone after wholesale replace", snap.Profile)
	}
}

func TestStore_ErrorFlagLifecycle(t *testing.T) {
	t.Parallel()

	store := &Store{}
	cause := errors.New("remote down")
	store.SetError(cause)

	if got := store.Snapshot().LastError; got == nil || !errors.Is(got, cause) {
		t.Fatalf("LastError = %v, want wrapped %v", got, cause)
	}

	store.ClearError()
	if got := store.Snapshot().LastError; got != nil {
		t.Fatalf("LastError = %v after ClearError, want nil", got)
	}
}

func TestDegradedProfile_FallsBackToUsername(t *testing.T) {
	t.Parallel()

	view := DegradedProfile("u-1", "", "ada")
	if view.User.Name != "ada" {
		t.Fatalf("name = %q, want username fallback", view.User.Name)
	}
	if !view.Degraded || !view.IsSelf {
		t.Fatalf("view = %#v, want degraded self projection", view)
	}
}
