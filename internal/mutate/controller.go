package mutate

import (
	"context"
	"sync"

	"github.com/perchapp/perch/internal/roost"
	"github.com/perchapp/perch/internal/state"
)

// Result reports how a mutation's remote confirmation resolved.
type Result struct {
	Key   string
	Seq   uint64
	Phase Phase

	// Stale means a newer mutation on the same entity superseded this
	// one while its confirmation was in flight; the result was discarded
	// without touching the store.
	Stale bool

	Err error
}

// Effect performs the remote confirmation for an already-applied local
// mutation and reconciles the store with the outcome.
type Effect func(ctx context.Context) Result

// Controller applies mutations to the local store first and hands back
// the effect that confirms them remotely. Confirmations are serialized
// per entity with sequence numbers: only the newest mutation for an
// entity may confirm or roll back.
type Controller struct {
	store *state.Store
	api   roost.API

	mu   sync.Mutex
	seqs map[string]uint64
}

// New builds a Controller over the given store and API.
func New(store *state.Store, api roost.API) *Controller {
	return &Controller{
		store: store,
		api:   api,
		seqs:  make(map[string]uint64),
	}
}

// ToggleFollow flips the follow edge toward target in the local store and
// returns the effect confirming it. The local flip is visible before this
// function returns.
func (c *Controller) ToggleFollow(targetID string) Effect {
	var follow bool
	if c.store.Snapshot().IsFollowing(targetID) {
		c.store.Unfollow(targetID)
		follow = false
	} else {
		c.store.Follow(targetID)
		follow = true
	}

	key := "follow:" + targetID
	seq := c.bump(key)

	return func(ctx context.Context) Result {
		var err error
		if follow {
			err = c.api.Follow(ctx, targetID)
		} else {
			err = c.api.Unfollow(ctx, targetID)
		}
		return c.resolve(ctx, key, seq, err, func() {
			if follow {
				c.store.Unfollow(targetID)
			} else {
				c.store.Follow(targetID)
			}
		})
	}
}

// ToggleLike flips the viewer's like on a post in the local store and
// returns the effect confirming it. Returns a nil effect when the post is
// unknown; a toggle never creates a post.
func (c *Controller) ToggleLike(postID string) Effect {
	liked, ok := c.store.ToggleLike(postID)
	if !ok {
		return nil
	}

	key := "like:" + postID
	seq := c.bump(key)

	return func(ctx context.Context) Result {
		var err error
		if liked {
			err = c.api.Like(ctx, postID)
		} else {
			err = c.api.Unlike(ctx, postID)
		}
		return c.resolve(ctx, key, seq, err, func() {
			c.store.ToggleLike(postID)
		})
	}
}

// SubmitPost validates content, prepends the post locally under a
// temporary id, and returns the effect that publishes it. On success the
// temporary post is replaced with the server's canonical copy; on failure
// it is removed. Validation failures are returned before anything is
// applied or dispatched.
func (c *Controller) SubmitPost(content string, author roost.User) (roost.Post, Effect, error) {
	content, err := roost.ValidatePostContent(content)
	if err != nil {
		return roost.Post{}, nil, err
	}

	local := c.store.AddPost(content, author)
	key := "post:" + local.ID
	seq := c.bump(key)

	effect := func(ctx context.Context) Result {
		canonical, err := c.api.CreatePost(ctx, content)
		if err == nil {
			c.store.ReplacePost(local.ID, canonical)
			return Result{Key: key, Seq: seq, Phase: Next(PhaseApplied, EventConfirm)}
		}
		return c.resolve(ctx, key, seq, err, func() {
			c.store.RemovePost(local.ID)
		})
	}
	return local, effect, nil
}

// resolve reconciles an applied mutation with its remote outcome: drop if
// superseded, confirm on success, invert and surface the error on failure.
func (c *Controller) resolve(ctx context.Context, key string, seq uint64, err error, invert func()) Result {
	if !c.current(key, seq) {
		return Result{Key: key, Seq: seq, Phase: PhaseApplied, Stale: true}
	}
	if err == nil {
		return Result{Key: key, Seq: seq, Phase: Next(PhaseApplied, EventConfirm)}
	}
	if ctx.Err() != nil {
		// The screen that issued this mutation is gone; the continuation
		// must not mutate state it no longer owns.
		return Result{Key: key, Seq: seq, Phase: PhaseApplied, Stale: true, Err: err}
	}
	invert()
	c.store.SetError(err)
	return Result{Key: key, Seq: seq, Phase: Next(PhaseApplied, EventFail), Err: err}
}

func (c *Controller) bump(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[key]++
	return c.seqs[key]
}

func (c *Controller) current(key string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seqs[key] == seq
}
