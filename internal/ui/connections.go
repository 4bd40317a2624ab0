package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// renderConnections renders the followers/following lists for the
// signed-in user.
func (m Model) renderConnections() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  ")

	followingTab := styles.MutedText.Render("Following")
	followersTab := styles.MutedText.Render("Followers")
	if m.connTab == TabFollowing {
		followingTab = styles.AccentText.Bold(true).Render("Following")
	} else {
		followersTab = styles.AccentText.Bold(true).Render("Followers")
	}
	b.WriteString(followingTab + "   " + followersTab)
	b.WriteString("   " + styles.FaintText.Render("t to switch"))
	b.WriteString("\n\n")

	if len(m.connUsers) == 0 {
		if m.snap.Loading {
			b.WriteString(styles.MutedText.Render("  Loading..."))
		} else if m.connTab == TabFollowing {
			b.WriteString(styles.MutedText.Render("  You are not following anyone yet."))
		} else {
			b.WriteString(styles.MutedText.Render("  No followers yet."))
		}
		b.WriteString("\n")
		return b.String()
	}

	rows, _ := m.renderUserRows(m.connUsers, m.connRow, m.connPage)
	b.WriteString(rows)
	return b.String()
}

func (m Model) handleConnectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "t":
		tab := TabFollowing
		if m.connTab == TabFollowing {
			tab = TabFollowers
		}
		return m.gotoConnections(tab)

	case "j", "down":
		if m.connRow < m.visibleCount(m.connUsers, m.connPage)-1 {
			m.connRow++
		}
		return m, nil

	case "k", "up":
		if m.connRow > 0 {
			m.connRow--
		}
		return m, nil

	case "]":
		if m.connPage < pageCount(len(m.connUsers), m.cfg.PageSize)-1 {
			m.connPage++
			m.connRow = 0
		}
		return m, nil

	case "[":
		if m.connPage > 0 {
			m.connPage--
			m.connRow = 0
		}
		return m, nil

	case " ":
		return m, m.toggleFollowSelected(m.selectedUser(m.connUsers, m.connRow, m.connPage))

	case "enter":
		if u := m.selectedUser(m.connUsers, m.connRow, m.connPage); u != nil {
			return m.gotoProfile(*u)
		}
		return m, nil
	}

	return m, nil
}
