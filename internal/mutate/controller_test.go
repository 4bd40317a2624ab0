package mutate

import (
	"context"
	"errors"
	"testing"

	"github.com/perchapp/perch/internal/roost"
	"github.com/perchapp/perch/internal/state"
)

// fakeAPI lets each test script the remote outcome per operation.
type fakeAPI struct {
	followErr   error
	unfollowErr error
	likeErr     error
	unlikeErr   error

	createPost roost.Post
	createErr  error

	followCalls   int
	unfollowCalls int
	likeCalls     int
	unlikeCalls   int
}

func (f *fakeAPI) Profile(ctx context.Context, userID string) (roost.Profile, error) {
	return roost.Profile{}, nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, userID string, update roost.ProfileUpdate) (roost.Profile, error) {
	return roost.Profile{}, nil
}

func (f *fakeAPI) Follow(ctx context.Context, targetID string) error {
	f.followCalls++
	return f.followErr
}

func (f *fakeAPI) Unfollow(ctx context.Context, targetID string) error {
	f.unfollowCalls++
	return f.unfollowErr
}

func (f *fakeAPI) Followers(ctx context.Context, userID string) ([]roost.User, error) {
	return nil, nil
}

func (f *fakeAPI) Following(ctx context.Context, userID string) ([]roost.User, error) {
	return nil, nil
}

func (f *fakeAPI) Suggested(ctx context.Context) ([]roost.User, error) { return nil, nil }
func (f *fakeAPI) Popular(ctx context.Context) ([]roost.User, error)   { return nil, nil }
func (f *fakeAPI) AllUsers(ctx context.Context) ([]roost.User, error)  { return nil, nil }

func (f *fakeAPI) SearchUsers(ctx context.Context, query string) ([]roost.User, error) {
	return nil, nil
}

func (f *fakeAPI) Feed(ctx context.Context) ([]roost.Post, error) { return nil, nil }

func (f *fakeAPI) CreatePost(ctx context.Context, content string) (roost.Post, error) {
	return f.createPost, f.createErr
}

func (f *fakeAPI) Like(ctx context.Context, postID string) error {
	f.likeCalls++
	return f.likeErr
}

func (f *fakeAPI) Unlike(ctx context.Context, postID string) error {
	f.unlikeCalls++
	return f.unlikeErr
}

var _ roost.API = (*fakeAPI)(nil)

func TestNext_TransitionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		phase Phase
		event Event
		want  Phase
	}{
		{PhaseIdle, EventApply, PhaseApplied},
		{PhaseApplied, EventConfirm, PhaseConfirmed},
		{PhaseApplied, EventFail, PhaseRolledBack},
		{PhaseIdle, EventConfirm, PhaseIdle},
		{PhaseConfirmed, EventFail, PhaseConfirmed},
		{PhaseRolledBack, EventApply, PhaseRolledBack},
	}
	for _, tc := range cases {
		if got := Next(tc.phase, tc.event); got != tc.want {
			t.Errorf("Next(%v, %v) = %v, want %v", tc.phase, tc.event, got, tc.want)
		}
	}
}

func TestToggleFollow_AppliesBeforeConfirm(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	api := &fakeAPI{}
	c := New(store, api)

	effect := c.ToggleFollow("u-2")
	if !store.Snapshot().IsFollowing("u-2") {
		t.Fatal("follow not applied locally before confirmation")
	}
	if api.followCalls != 0 {
		t.Fatal("remote call dispatched before the effect ran")
	}

	result := effect(context.Background())
	if result.Phase != PhaseConfirmed || result.Stale {
		t.Fatalf("result = %#v, want confirmed", result)
	}
	if api.followCalls != 1 {
		t.Fatalf("follow calls = %d, want 1", api.followCalls)
	}
	if !store.Snapshot().IsFollowing("u-2") {
		t.Fatal("confirmed follow was reverted")
	}
}

func TestToggleFollow_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	api := &fakeAPI{followErr: errors.New("server down")}
	c := New(store, api)

	effect := c.ToggleFollow("u-2")
	result := effect(context.Background())

	if result.Phase != PhaseRolledBack {
		t.Fatalf("phase = %v, want rolled-back", result.Phase)
	}
	snap := store.Snapshot()
	if snap.IsFollowing("u-2") {
		t.Fatal("failed follow not inverted")
	}
	if snap.LastError == nil {
		t.Fatal("rollback did not surface the error")
	}
}

func TestToggleFollow_RapidTogglesDropSupersededResult(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	api := &fakeAPI{followErr: errors.New("slow failure")}
	c := New(store, api)

	first := c.ToggleFollow("u-2")  // follow, will fail remotely
	second := c.ToggleFollow("u-2") // unfollow before the first resolves

	// The superseded confirmation must not roll back state it no longer owns.
	result := first(context.Background())
	if !result.Stale {
		t.Fatalf("superseded result = %#v, want stale", result)
	}
	if store.Snapshot().IsFollowing("u-2") {
		t.Fatal("stale failure mutated the store")
	}
	if store.Snapshot().LastError != nil {
		t.Fatal("stale failure surfaced an error")
	}

	api.unfollowErr = nil
	result = second(context.Background())
	if result.Phase != PhaseConfirmed {
		t.Fatalf("newest toggle = %#v, want confirmed", result)
	}
}

func TestToggleLike_UnknownPostReturnsNilEffect(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	c := New(store, &fakeAPI{})

	if effect := c.ToggleLike("nope"); effect != nil {
		t.Fatal("toggle on unknown post produced an effect")
	}
}

func TestToggleLike_RollbackRestoresCount(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	store.SetPosts([]roost.Post{{ID: "p-1", Likes: 3}})
	api := &fakeAPI{likeErr: errors.New("nope")}
	c := New(store, api)

	effect := c.ToggleLike("p-1")
	if got := store.Snapshot().Posts[0].Likes; got != 4 {
		t.Fatalf("likes = %d before confirmation, want optimistic 4", got)
	}

	result := effect(context.Background())
	if result.Phase != PhaseRolledBack {
		t.Fatalf("phase = %v, want rolled-back", result.Phase)
	}
	snap := store.Snapshot()
	if snap.Posts[0].Likes != 3 || snap.Posts[0].LikedByMe {
		t.Fatalf("post = %#v, want original state restored", snap.Posts[0])
	}
}

func TestSubmitPost_ReplacesTempWithCanonical(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	canonical := roost.Post{ID: "p-42", Content: "hello", CreatedAt: "2026-01-02T03:04:05Z"}
	api := &fakeAPI{createPost: canonical}
	c := New(store, api)

	local, effect, err := c.SubmitPost("  hello  ", roost.User{ID: "u-1", Name: "Ada"})
	if err != nil {
		t.Fatalf("SubmitPost returned error: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Posts) != 1 || snap.Posts[0].ID != local.ID {
		t.Fatalf("posts = %#v, want local post visible immediately", snap.Posts)
	}
	if snap.Posts[0].Content != "hello" {
		t.Fatalf("content = %q, want trimmed before apply", snap.Posts[0].Content)
	}

	result := effect(context.Background())
	if result.Phase != PhaseConfirmed {
		t.Fatalf("result = %#v, want confirmed", result)
	}
	snap = store.Snapshot()
	if len(snap.Posts) != 1 || snap.Posts[0].ID != "p-42" {
		t.Fatalf("posts = %#v, want canonical copy in place", snap.Posts)
	}
}

func TestSubmitPost_RemovesTempOnFailure(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	api := &fakeAPI{createErr: errors.New("rejected")}
	c := New(store, api)

	_, effect, err := c.SubmitPost("hello", roost.User{ID: "u-1"})
	if err != nil {
		t.Fatalf("SubmitPost returned error: %v", err)
	}

	result := effect(context.Background())
	if result.Phase != PhaseRolledBack {
		t.Fatalf("phase = %v, want rolled-back", result.Phase)
	}
	snap := store.Snapshot()
	if len(snap.Posts) != 0 {
		t.Fatalf("posts = %#v, want temp post removed", snap.Posts)
	}
	if snap.LastError == nil {
		t.Fatal("failure did not surface an error")
	}
}

func TestSubmitPost_ValidationRejectedBeforeApply(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	c := New(store, &fakeAPI{})

	_, effect, err := c.SubmitPost("   ", roost.User{ID: "u-1"})
	if !roost.IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if effect != nil {
		t.Fatal("rejected submit produced an effect")
	}
	if len(store.Snapshot().Posts) != 0 {
		t.Fatal("rejected submit touched the store")
	}
}

func TestResolve_CancelledContextDoesNotRollBack(t *testing.T) {
	t.Parallel()

	store := &state.Store{}
	api := &fakeAPI{followErr: context.Canceled}
	c := New(store, api)

	effect := c.ToggleFollow("u-2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := effect(ctx)

	if !result.Stale {
		t.Fatalf("result = %#v, want stale for cancelled context", result)
	}
	if !store.Snapshot().IsFollowing("u-2") {
		t.Fatal("cancelled confirmation mutated the store")
	}
}
