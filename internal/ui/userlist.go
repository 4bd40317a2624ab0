package ui

import (
	"fmt"
	"strings"

	"github.com/perchapp/perch/internal/roost"
)

// renderUserRows renders a paginated user list shared by the explore and
// connections views. Returns the rendered block and the clamped page.
func (m Model) renderUserRows(users []roost.User, row, page int) (string, int) {
	styles := m.theme.Styles()

	start, end, page := pageBounds(len(users), page, m.cfg.PageSize)

	var b strings.Builder
	for i := start; i < end; i++ {
		u := users[i]
		selected := i-start == row

		cursor := "  "
		if selected {
			cursor = styles.Selected.Render("▌") + " "
		}

		name := u.Name
		if name == "" {
			name = u.ID
		}
		line := styles.Text.Bold(selected).Render(name)
		if handle := u.Handle(); handle != "" {
			line += " " + styles.MutedText.Render(handle)
		}
		if u.ID == m.cfg.UserID {
			line += " " + styles.FaintText.Render("(you)")
		} else if m.snap.IsFollowing(u.ID) {
			line += " " + styles.SuccessText.Render("following")
		}

		b.WriteString(cursor + line + "\n")
		if bio := strings.TrimSpace(u.Bio); bio != "" {
			b.WriteString("  " + styles.FaintText.Render(truncate(bio, min(m.width-6, 70))) + "\n")
		}
	}

	if pages := pageCount(len(users), m.cfg.PageSize); pages > 1 {
		b.WriteString("\n  " + styles.FaintText.Render(fmt.Sprintf("Page %d/%d  [ ] to change", page+1, pages)))
		b.WriteString("\n")
	}

	return b.String(), page
}

// visibleCount returns how many rows the current page of a list shows.
func (m Model) visibleCount(users []roost.User, page int) int {
	start, end, _ := pageBounds(len(users), page, m.cfg.PageSize)
	return end - start
}

// selectedUser resolves the row cursor on the current page to a user.
func (m Model) selectedUser(users []roost.User, row, page int) *roost.User {
	start, end, _ := pageBounds(len(users), page, m.cfg.PageSize)
	idx := start + row
	if idx < start || idx >= end {
		return nil
	}
	return &users[idx]
}
