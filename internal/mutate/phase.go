package mutate

// Phase tracks a single mutation through its lifecycle.
type Phase int

const (
	// PhaseIdle is the state before the user triggers anything.
	PhaseIdle Phase = iota

	// PhaseApplied means the local store has been mutated and the remote
	// confirmation is in flight.
	PhaseApplied

	// PhaseConfirmed is terminal: the remote call succeeded and local
	// state is already correct by construction.
	PhaseConfirmed

	// PhaseRolledBack is terminal: the remote call failed and the local
	// mutation was inverted.
	PhaseRolledBack
)

// Event is an input to the mutation state machine.
type Event int

const (
	EventApply Event = iota
	EventConfirm
	EventFail
)

// Next is the pure transition function for the mutation lifecycle.
// Inputs outside the legal transitions leave the phase unchanged.
func Next(p Phase, ev Event) Phase {
	switch {
	case p == PhaseIdle && ev == EventApply:
		return PhaseApplied
	case p == PhaseApplied && ev == EventConfirm:
		return PhaseConfirmed
	case p == PhaseApplied && ev == EventFail:
		return PhaseRolledBack
	default:
		return p
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseApplied:
		return "applied"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}
