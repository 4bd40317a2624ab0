// Package state holds the client-side source of truth for rendering:
// the feed, the viewer's follow-set, the current profile projection, and
// the loading/error flags. Mutations are synchronous and notify
// subscribers before returning, so the renderer always sees a consistent
// snapshot.
package state
