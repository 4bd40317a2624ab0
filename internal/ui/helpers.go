package ui

import (
	"fmt"
	"time"
)

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// relTime formats a timestamp relative to now: "now", "5m", "3h", "2d",
// falling back to a date for anything older.
func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := time.Since(t)
	switch {
	case since < time.Minute:
		return "now"
	case since < time.Hour:
		return fmt.Sprintf("%dm", int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh", int(since.Hours()))
	case since < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(since.Hours()/24))
	default:
		return t.Format("Jan 2006")
	}
}

// pageBounds returns the slice window for the given page over n items.
// Pages are clamped so a shrinking result set never leaves the view on an
// empty page.
func pageBounds(n, page, pageSize int) (start, end, clampedPage int) {
	if pageSize <= 0 || n <= 0 {
		return 0, 0, 0
	}
	lastPage := (n - 1) / pageSize
	if page > lastPage {
		page = lastPage
	}
	if page < 0 {
		page = 0
	}
	start = page * pageSize
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end, page
}

// pageCount returns how many pages n items occupy.
func pageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}
