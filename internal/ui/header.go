package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the top status bar: identity, loading/error
// state, and any transient notice.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("perch", styles.Logo),
	}

	if handle := m.sessionUser().Handle(); handle != "" {
		parts = append(parts, bg.Render(handle, styles.AccentText))
	}

	if m.snap.Loading {
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	}

	if err := m.snap.LastError; err != nil {
		maxErr := 60
		if m.width < 100 {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(errorText(err), maxErr), styles.DangerText)+bg.Space()+
				bg.Render("(x to dismiss)", styles.FaintText))
	} else if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.SuccessText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderDock renders the navigation bar plus per-view key hints.
func (m Model) renderDock() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	tabs := []struct {
		key   string
		label string
		view  View
	}{
		{"1", "Feed", ViewFeed},
		{"2", "Explore", ViewExplore},
		{"3", "Profile", ViewProfile},
		{"4", "People", ViewConnections},
	}

	segments := make([]string, 0, len(tabs)+4)
	for _, tab := range tabs {
		label := fmt.Sprintf("%s %s", tab.key, tab.label)
		if tab.view == m.currentView {
			segments = append(segments, bg.Render(label, styles.AccentText.Bold(true)))
		} else {
			segments = append(segments, bg.Render(label, styles.MutedText))
		}
	}

	type hint struct{ key, desc string }
	var hints []hint
	switch m.currentView {
	case ViewFeed:
		hints = []hint{{"j/k", "Move"}, {"l", "Like"}, {"enter", "Author"}, {"n", "Post"}}
	case ViewExplore:
		hints = []hint{{"/", "Search"}, {"s", "Suggested"}, {"a", "Everyone"}, {"space", "Follow"}, {"[ ]", "Page"}}
	case ViewProfile:
		hints = []hint{{"E", "Edit"}, {"o", "Connections"}, {"space", "Follow"}}
	case ViewConnections:
		hints = []hint{{"t", "Tab"}, {"space", "Follow"}, {"[ ]", "Page"}}
	}
	for _, h := range hints {
		segments = append(segments,
			bg.Render(h.key, styles.AccentText)+bg.Sep(":")+bg.Render(h.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("?", styles.AccentText)+bg.Sep(":")+bg.Render("Help", styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// errorText flattens an error for single-line display.
func errorText(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}
