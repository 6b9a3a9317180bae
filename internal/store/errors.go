package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a recipe id does not exist. Handlers
// translate it to a 404; the stores never retry or recover on their own.
var ErrNotFound = errors.New("recipe not found")

// ValidationError reports malformed or incomplete input with field-level
// detail. Handlers translate it to a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
