package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/mutate"
	"github.com/perchapp/perch/internal/roost"
	"github.com/perchapp/perch/internal/state"
)

// snapshotMsg carries a fresh store snapshot pushed by the store's
// subscription hook.
type snapshotMsg state.Snapshot

// Messages from async loads. Each carries the navigation generation at
// dispatch time; results stamped with an old generation belong to a
// screen the user has left and are dropped.

type feedLoadedMsg struct {
	gen   int
	posts []roost.Post
	err   error
}

type followSetMsg struct {
	gen int
	ids []string
	err error
}

type userListDest int

const (
	destExplore userListDest = iota
	destConnections
)

type usersLoadedMsg struct {
	gen   int
	dest  userListDest
	label string
	users []roost.User
	err   error
}

type profileLoadedMsg struct {
	gen      int
	userID   string
	fallback roost.User
	profile  roost.Profile
	err      error
}

// profileSavedMsg carries no generation: like mutation results, a save
// outcome must land even if the user has navigated away.
type profileSavedMsg struct {
	profile roost.Profile
	err     error
}

type mutationMsg struct {
	result mutate.Result
}

// beginLoad flips the loading flag and clears any stale error before a
// fetch is dispatched.
func (m *Model) beginLoad() {
	m.store.SetLoading(true)
	m.store.ClearError()
	m.snap = m.store.Snapshot()
}

func (m Model) loadFeedCmd() tea.Cmd {
	gen := m.loadGen
	return func() tea.Msg {
		posts, err := m.client.Feed(m.ctx)
		return feedLoadedMsg{gen: gen, posts: posts, err: err}
	}
}

func (m Model) loadFollowSetCmd() tea.Cmd {
	gen := m.loadGen
	userID := m.cfg.UserID
	return func() tea.Msg {
		users, err := m.client.Following(m.ctx, userID)
		if err != nil {
			return followSetMsg{gen: gen, err: err}
		}
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		return followSetMsg{gen: gen, ids: ids}
	}
}

func (m Model) searchUsersCmd(query string) tea.Cmd {
	gen := m.loadGen
	label := "Popular"
	if q := query; q != "" {
		label = "Results for " + truncate(q, 24)
	}
	return func() tea.Msg {
		users, err := m.client.SearchUsers(m.ctx, query)
		return usersLoadedMsg{gen: gen, dest: destExplore, label: label, users: users, err: err}
	}
}

func (m Model) loadSuggestedCmd() tea.Cmd {
	gen := m.loadGen
	return func() tea.Msg {
		users, err := m.client.Suggested(m.ctx)
		return usersLoadedMsg{gen: gen, dest: destExplore, label: "Suggested", users: users, err: err}
	}
}

func (m Model) loadAllUsersCmd() tea.Cmd {
	gen := m.loadGen
	return func() tea.Msg {
		users, err := m.client.AllUsers(m.ctx)
		return usersLoadedMsg{gen: gen, dest: destExplore, label: "Everyone", users: users, err: err}
	}
}

func (m Model) loadConnectionsCmd(tab ConnTab) tea.Cmd {
	gen := m.loadGen
	userID := m.cfg.UserID
	return func() tea.Msg {
		var (
			users []roost.User
			err   error
			label string
		)
		if tab == TabFollowers {
			users, err = m.client.Followers(m.ctx, userID)
			label = "Followers"
		} else {
			users, err = m.client.Following(m.ctx, userID)
			label = "Following"
		}
		return usersLoadedMsg{gen: gen, dest: destConnections, label: label, users: users, err: err}
	}
}

func (m Model) loadProfileCmd(userID string, fallback roost.User) tea.Cmd {
	gen := m.loadGen
	return func() tea.Msg {
		profile, err := m.client.Profile(m.ctx, userID)
		return profileLoadedMsg{gen: gen, userID: userID, fallback: fallback, profile: profile, err: err}
	}
}

func (m Model) saveProfileCmd(update roost.ProfileUpdate) tea.Cmd {
	userID := m.cfg.UserID
	return func() tea.Msg {
		profile, err := m.client.UpdateProfile(m.ctx, userID, update)
		return profileSavedMsg{profile: profile, err: err}
	}
}

// runEffectCmd executes an optimistic mutation's remote confirmation.
// Unlike loads, mutation outcomes are never generation-gated: a rollback
// must land even if the user has navigated away.
func (m Model) runEffectCmd(effect mutate.Effect) tea.Cmd {
	if effect == nil {
		return nil
	}
	return func() tea.Msg {
		return mutationMsg{result: effect(m.ctx)}
	}
}
