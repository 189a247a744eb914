package chatports

import "errors"

// Store-level sentinel errors. NotFound takes precedence over Forbidden:
// stores check existence before ownership so that a nonexistent id is never
// reported as a permission failure.
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrForbidden            = errors.New("forbidden")
)

// ValidationError reports user-correctable bad input (empty title, field too
// long). The message is safe to surface verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
