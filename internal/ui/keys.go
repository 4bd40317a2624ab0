package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/prefs"
	"github.com/perchapp/perch/internal/roost"
)

// handleKey routes keyboard input: overlays first, then global keys,
// then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.composing {
		return m.handleComposeKey(msg)
	}
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.searchFocused {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case "x":
		m.store.ClearError()
		m.snap = m.store.Snapshot()
		m.notice = ""
		return m, nil

	case "r":
		return m.reloadCurrent()

	case "n":
		m.composing = true
		m.notice = ""
		m.composeInput.Reset()
		return m, m.composeInput.Focus()

	case "1", "f":
		return m.gotoFeed()

	case "2", "e":
		return m.gotoExplore()

	case "3", "p":
		return m.gotoProfile(m.sessionUser())

	case "4", "c":
		return m.gotoConnections(m.connTab)

	case "esc":
		if m.currentView != ViewFeed {
			return m.gotoFeed()
		}
		return m, nil
	}

	switch m.currentView {
	case ViewFeed:
		return m.handleFeedKey(msg)
	case ViewExplore:
		return m.handleExploreKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	case ViewConnections:
		return m.handleConnectionsKey(msg)
	}

	return m, nil
}

// Navigation. Each transition bumps the load generation so in-flight
// results for the screen being left are discarded on arrival.

func (m Model) gotoFeed() (tea.Model, tea.Cmd) {
	m.currentView = ViewFeed
	m.loadGen++
	m.notice = ""
	m.beginLoad()
	return m, m.loadFeedCmd()
}

func (m Model) gotoExplore() (tea.Model, tea.Cmd) {
	m.currentView = ViewExplore
	m.loadGen++
	m.notice = ""
	m.beginLoad()
	// Blank query resolves to the popular set in the adapter.
	return m, m.searchUsersCmd(m.searchInput.Value())
}

func (m Model) gotoProfile(user roost.User) (tea.Model, tea.Cmd) {
	m.currentView = ViewProfile
	m.loadGen++
	m.notice = ""
	m.profileUserID = user.ID
	m.beginLoad()
	return m, m.loadProfileCmd(user.ID, user)
}

func (m Model) gotoConnections(tab ConnTab) (tea.Model, tea.Cmd) {
	m.currentView = ViewConnections
	m.connTab = tab
	m.loadGen++
	m.notice = ""
	m.beginLoad()
	return m, m.loadConnectionsCmd(tab)
}

func (m Model) reloadCurrent() (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewExplore:
		return m.gotoExplore()
	case ViewProfile:
		return m.gotoProfile(m.profileFallbackUser())
	case ViewConnections:
		return m.gotoConnections(m.connTab)
	default:
		return m.gotoFeed()
	}
}

// sessionUser returns the locally known identity for the signed-in user,
// used for optimistic post authorship and degraded profile rendering.
func (m Model) sessionUser() roost.User {
	return roost.User{
		ID:       m.cfg.UserID,
		Name:     m.cfg.Name,
		Username: m.cfg.Username,
	}
}

func (m Model) profileFallbackUser() roost.User {
	if m.profileUserID == m.cfg.UserID {
		return m.sessionUser()
	}
	if m.snap.HasProfile && m.snap.Profile.User.ID == m.profileUserID {
		return m.snap.Profile.User
	}
	return roost.User{ID: m.profileUserID}
}

// toggleFollowSelected flips the follow edge for a selected user row and
// returns the confirmation command. No-op for the session user.
func (m *Model) toggleFollowSelected(user *roost.User) tea.Cmd {
	if user == nil || user.ID == m.cfg.UserID {
		return nil
	}
	effect := m.controller.ToggleFollow(user.ID)
	m.snap = m.store.Snapshot()
	return m.runEffectCmd(effect)
}
