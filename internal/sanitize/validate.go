package sanitize

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidSessionID indicates a session ID is not a canonical UUID.
var ErrInvalidSessionID = errors.New("invalid session ID format")

// ValidateSessionID checks that id is a canonical 36-character UUID, the
// format the session registry issues.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSessionID)
	}
	if len(id) != 36 {
		return fmt.Errorf("%w: must be 36 characters", ErrInvalidSessionID)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSessionID, err)
	}
	return nil
}
