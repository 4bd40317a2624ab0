package state

import "github.com/perchapp/perch/internal/roost"

// ProfileView is the per-screen projection of a user: identity plus
// relationship counts and the viewer's relationship to them.
type ProfileView struct {
	User        roost.User
	Followers   int
	Following   int
	IsSelf      bool
	IsFollowing bool

	// Degraded marks a fallback projection built from session identity
	// because the remote profile was unavailable.
	Degraded bool
}

// NewProfileView builds a projection from the server's canonical profile.
func NewProfileView(p roost.Profile, isSelf, isFollowing bool) ProfileView {
	return ProfileView{
		User:        p.User,
		Followers:   p.Followers,
		Following:   p.Following,
		IsSelf:      isSelf,
		IsFollowing: isFollowing,
	}
}

// DegradedProfile builds the fallback projection from locally known
// identity fields. Used when the profile fetch fails or the server has
// no profile for the id, so the screen renders instead of blocking.
func DegradedProfile(id, name, username string) ProfileView {
	if name == "" {
		name = username
	}
	return ProfileView{
		User: roost.User{
			ID:       id,
			Name:     name,
			Username: username,
		},
		IsSelf:   true,
		Degraded: true,
	}
}
