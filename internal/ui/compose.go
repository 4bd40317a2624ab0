package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/roost"
)

// renderCompose renders the new-post overlay.
func (m Model) renderCompose() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render("New post") + "\n\n")
	b.WriteString(m.composeInput.View())
	b.WriteString("\n\n")

	remaining := roost.PostMaxLen - len(m.composeInput.Value())
	counter := styles.FaintText
	if remaining < 20 {
		counter = styles.WarningText
	}
	b.WriteString("  " + counter.Render(fmt.Sprintf("%d left", remaining)))
	b.WriteString("   " + styles.FaintText.Render("ctrl+d: post   esc: cancel") + "\n")

	if err := m.snap.LastError; err != nil {
		b.WriteString("\n  " + styles.DangerText.Render(errorText(err)) + "\n")
	}

	return b.String()
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
		m.composeInput.Blur()
		m.store.ClearError()
		m.snap = m.store.Snapshot()
		return m, nil

	case "ctrl+d":
		_, effect, err := m.controller.SubmitPost(m.composeInput.Value(), m.sessionUser())
		if err != nil {
			// Rejected before anything was applied; keep the overlay open.
			m.store.SetError(err)
			m.snap = m.store.Snapshot()
			return m, nil
		}
		m.composing = false
		m.composeInput.Blur()
		m.composeInput.Reset()
		m.currentView = ViewFeed
		m.feedRow = 0
		m.snap = m.store.Snapshot()
		return m, m.runEffectCmd(effect)
	}

	var cmd tea.Cmd
	m.composeInput, cmd = m.composeInput.Update(msg)
	return m, cmd
}
