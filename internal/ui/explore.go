package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// renderExplore renders the user discovery view: search box plus the
// current result set (popular, suggested, everyone, or search hits).
func (m Model) renderExplore() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if m.resultsLabel != "" {
		b.WriteString("  " + styles.AccentText.Bold(true).Render(m.resultsLabel) + "\n\n")
	}

	if len(m.results) == 0 {
		if m.snap.Loading {
			b.WriteString(styles.MutedText.Render("  Looking for people..."))
		} else {
			b.WriteString(styles.MutedText.Render("  No one found."))
		}
		b.WriteString("\n")
		return b.String()
	}

	rows, _ := m.renderUserRows(m.results, m.exploreRow, m.explorePage)
	b.WriteString(rows)
	return b.String()
}

func (m Model) handleExploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searchFocused = true
		return m, m.searchInput.Focus()

	case "s":
		m.loadGen++
		m.beginLoad()
		return m, m.loadSuggestedCmd()

	case "a":
		m.loadGen++
		m.beginLoad()
		return m, m.loadAllUsersCmd()

	case "j", "down":
		if m.exploreRow < m.visibleCount(m.results, m.explorePage)-1 {
			m.exploreRow++
		}
		return m, nil

	case "k", "up":
		if m.exploreRow > 0 {
			m.exploreRow--
		}
		return m, nil

	case "]":
		if m.explorePage < pageCount(len(m.results), m.cfg.PageSize)-1 {
			m.explorePage++
			m.exploreRow = 0
		}
		return m, nil

	case "[":
		if m.explorePage > 0 {
			m.explorePage--
			m.exploreRow = 0
		}
		return m, nil

	case " ":
		return m, m.toggleFollowSelected(m.selectedUser(m.results, m.exploreRow, m.explorePage))

	case "enter":
		if u := m.selectedUser(m.results, m.exploreRow, m.explorePage); u != nil {
			return m.gotoProfile(*u)
		}
		return m, nil
	}

	return m, nil
}

// handleSearchKey runs while the search box has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		m.searchFocused = false
		m.searchInput.Blur()
		m.loadGen++
		m.beginLoad()
		return m, m.searchUsersCmd(strings.TrimSpace(m.searchInput.Value()))
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}
