package ui

import (
	"fmt"
	"strings"
)

// renderHelp renders the keybinding reference overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render("perch keys") + "\n")

	section := func(title string, items [][2]string) {
		b.WriteString("\n  " + styles.MutedText.Bold(true).Render(title) + "\n")
		for _, it := range items {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				styles.AccentText.Render(fmt.Sprintf("%-9s", it[0])),
				styles.Text.Render(it[1])))
		}
	}

	section("Views", [][2]string{
		{"1 / f", "Feed"},
		{"2 / e", "Explore"},
		{"3 / p", "Your profile"},
		{"4 / c", "Connections"},
		{"esc", "Back to feed"},
	})
	section("Feed", [][2]string{
		{"j / k", "Move selection"},
		{"g / G", "Jump to top / bottom"},
		{"l", "Like or unlike"},
		{"enter", "Open author's profile"},
	})
	section("Explore & connections", [][2]string{
		{"/", "Search users"},
		{"s", "Suggested users"},
		{"a", "Everyone"},
		{"t", "Following / followers"},
		{"[ / ]", "Previous / next page"},
		{"space", "Follow or unfollow"},
	})
	section("Profile", [][2]string{
		{"E", "Edit name and bio"},
		{"o", "Open connections"},
	})
	section("General", [][2]string{
		{"n", "New post"},
		{"r", "Reload view"},
		{"x", "Dismiss error"},
		{"T", "Cycle theme (" + strings.Join(ThemeNames(), ", ") + ")"},
		{"q", "Quit"},
	})

	b.WriteString("\n  " + styles.FaintText.Render("Press any key to close") + "\n")
	return b.String()
}
