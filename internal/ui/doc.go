// Package ui renders perch with Bubble Tea: the feed, profile pages,
// explore/search, and follower lists, all driven by snapshots of the
// state store. Remote work runs as commands; their messages carry a
// generation stamp so results for screens the user has left are dropped.
package ui
