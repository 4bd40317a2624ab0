package roost

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the requested entity does not exist on the
// server. Callers fall back to a degraded local projection instead of
// failing the screen.
var ErrNotFound = errors.New("not found")

// RemoteError covers network and server failures. Status is zero for
// transport-level failures where no response arrived.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ValidationError reports malformed input rejected before dispatch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
