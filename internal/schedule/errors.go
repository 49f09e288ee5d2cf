package schedule

import (
	"errors"
	"fmt"
)

// ErrInternalConsistency is returned when a week override cannot be re-read
// immediately after a successful write. It signals a store-level fault, not
// a caller mistake, and is never retried here.
var ErrInternalConsistency = errors.New("week override missing after write")

// ValidationError reports a malformed input field. Validation always runs
// before any write, so a ValidationError means nothing was persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
