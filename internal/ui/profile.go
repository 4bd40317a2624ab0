package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/roost"
)

// renderProfile renders a user's profile projection.
func (m Model) renderProfile() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")

	if !m.snap.HasProfile {
		if m.snap.Loading {
			b.WriteString(styles.MutedText.Render("  Loading profile..."))
		} else {
			b.WriteString(styles.MutedText.Render("  No profile loaded."))
		}
		b.WriteString("\n")
		return b.String()
	}

	p := m.snap.Profile
	name := p.User.Name
	if name == "" {
		name = p.User.ID
	}

	b.WriteString("  " + styles.Text.Bold(true).Render(name))
	if handle := p.User.Handle(); handle != "" {
		b.WriteString(" " + styles.MutedText.Render(handle))
	}
	if p.IsSelf {
		b.WriteString(" " + styles.FaintText.Render("(you)"))
	} else if p.IsFollowing {
		b.WriteString(" " + styles.SuccessText.Render("following"))
	}
	b.WriteString("\n\n")

	if p.Degraded {
		b.WriteString("  " + styles.WarningText.Render("Showing local details only; the server copy was unavailable."))
		b.WriteString("\n\n")
	}

	if bio := strings.TrimSpace(p.User.Bio); bio != "" {
		b.WriteString("  " + styles.Text.Render(truncate(bio, min(m.width-6, 76))) + "\n\n")
	}

	if !p.Degraded {
		b.WriteString("  " + styles.AccentText.Render(fmt.Sprintf("%d", p.Followers)) +
			styles.MutedText.Render(" followers   ") +
			styles.AccentText.Render(fmt.Sprintf("%d", p.Following)) +
			styles.MutedText.Render(" following"))
		b.WriteString("\n")
	}

	if joined := p.User.ParsedJoinedAt(); !joined.IsZero() {
		b.WriteString("  " + styles.FaintText.Render("Joined "+joined.Format("January 2006")) + "\n")
	}

	return b.String()
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "E":
		if !m.snap.HasProfile || !m.snap.Profile.IsSelf {
			return m, nil
		}
		m.editing = true
		m.editFocus = 0
		m.nameInput.SetValue(m.snap.Profile.User.Name)
		m.bioInput.SetValue(m.snap.Profile.User.Bio)
		m.bioInput.Blur()
		return m, m.nameInput.Focus()

	case "o":
		if m.snap.HasProfile && m.snap.Profile.IsSelf {
			return m.gotoConnections(m.connTab)
		}
		return m, nil

	case " ":
		if !m.snap.HasProfile || m.snap.Profile.IsSelf {
			return m, nil
		}
		user := m.snap.Profile.User
		return m, m.toggleFollowSelected(&user)
	}

	return m, nil
}

// renderProfileEdit renders the name/bio edit overlay.
func (m Model) renderProfileEdit() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render("Edit profile") + "\n\n")

	nameLabel := styles.MutedText.Render("Name")
	bioLabel := styles.MutedText.Render("Bio")
	if m.editFocus == 0 {
		nameLabel = styles.AccentText.Render("Name")
	} else {
		bioLabel = styles.AccentText.Render("Bio")
	}

	b.WriteString("  " + nameLabel + "\n")
	b.WriteString("  " + m.nameInput.View() + "\n\n")
	b.WriteString("  " + bioLabel + "\n")
	b.WriteString("  " + m.bioInput.View() + "\n\n")

	b.WriteString("  " + styles.FaintText.Render("tab: switch field   enter: save   esc: cancel") + "\n")

	if err := m.snap.LastError; err != nil {
		b.WriteString("\n  " + styles.DangerText.Render(errorText(err)) + "\n")
	}

	return b.String()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.nameInput.Blur()
		m.bioInput.Blur()
		m.store.ClearError()
		m.snap = m.store.Snapshot()
		return m, nil

	case "tab", "shift+tab":
		m.editFocus = 1 - m.editFocus
		if m.editFocus == 0 {
			m.bioInput.Blur()
			return m, m.nameInput.Focus()
		}
		m.nameInput.Blur()
		return m, m.bioInput.Focus()

	case "enter":
		// Validate locally before touching the network; the overlay stays
		// open so the user can fix the field.
		update, err := roost.ValidateProfileUpdate(roost.ProfileUpdate{
			Name: m.nameInput.Value(),
			Bio:  m.bioInput.Value(),
		})
		if err != nil {
			m.store.SetError(err)
			m.snap = m.store.Snapshot()
			return m, nil
		}
		m.editing = false
		m.nameInput.Blur()
		m.bioInput.Blur()
		m.beginLoad()
		return m, m.saveProfileCmd(update)
	}

	var cmd tea.Cmd
	if m.editFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.bioInput, cmd = m.bioInput.Update(msg)
	}
	return m, cmd
}
