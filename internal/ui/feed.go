package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// renderFeed renders the home timeline.
func (m Model) renderFeed() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")

	if len(m.snap.Posts) == 0 {
		if m.snap.Loading {
			b.WriteString(styles.MutedText.Render("  Fetching your feed..."))
		} else {
			b.WriteString(styles.MutedText.Render("  Nothing here yet. Follow people in Explore, or press n to post."))
		}
		b.WriteString("\n")
		return b.String()
	}

	contentWidth := min(m.width-6, 76)
	for i, post := range m.snap.Posts {
		selected := i == m.feedRow

		author := post.Author.Name
		if author == "" {
			author = post.Author.ID
		}
		head := styles.Text.Bold(true).Render(author)
		if handle := post.Author.Handle(); handle != "" {
			head += " " + styles.MutedText.Render(handle)
		}
		if ts := relTime(post.ParsedCreatedAt()); ts != "" {
			head += " " + styles.FaintText.Render("· "+ts)
		}

		likeStyle := styles.FaintText
		likeMark := "♡"
		if post.LikedByMe {
			likeStyle = styles.AccentText
			likeMark = "♥"
		}
		meta := likeStyle.Render(fmt.Sprintf("%s %d", likeMark, post.Likes)) +
			styles.FaintText.Render(fmt.Sprintf("   ↩ %d", post.Replies))

		cursor := "  "
		if selected {
			cursor = styles.Selected.Render("▌") + " "
		}

		b.WriteString(cursor + head + "\n")
		b.WriteString("  " + styles.Text.Render(truncate(post.Content, contentWidth)) + "\n")
		b.WriteString("  " + meta + "\n\n")
	}

	return b.String()
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.feedRow < len(m.snap.Posts)-1 {
			m.feedRow++
		}
		return m, nil

	case "k", "up":
		if m.feedRow > 0 {
			m.feedRow--
		}
		return m, nil

	case "g":
		m.feedRow = 0
		return m, nil

	case "G":
		m.feedRow = max(len(m.snap.Posts)-1, 0)
		return m, nil

	case "l", " ":
		if m.feedRow >= len(m.snap.Posts) {
			return m, nil
		}
		effect := m.controller.ToggleLike(m.snap.Posts[m.feedRow].ID)
		m.snap = m.store.Snapshot()
		return m, m.runEffectCmd(effect)

	case "enter":
		if m.feedRow >= len(m.snap.Posts) {
			return m, nil
		}
		return m.gotoProfile(m.snap.Posts[m.feedRow].Author)
	}

	return m, nil
}
