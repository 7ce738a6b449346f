package update

import "fmt"

type UpdateErrorType int

const (
	UpdateErrorTypeNotFound UpdateErrorType = iota
	UpdateErrorTypeMalformed
	UpdateErrorTypeDownload
	UpdateErrorTypeList
)

var (
	ErrNotFound  = &UpdateError{Type: UpdateErrorTypeNotFound}
	ErrMalformed = &UpdateError{Type: UpdateErrorTypeMalformed}
	ErrDownload  = &UpdateError{Type: UpdateErrorTypeDownload}
	ErrList      = &UpdateError{Type: UpdateErrorTypeList}
)

type UpdateError struct {
	Type    UpdateErrorType
	Message string
	Err     error
	Skill   string
}

// Error keeps the decoder detail of a malformed record out of the message;
// it stays reachable through Unwrap. A download failure reads as the
// underlying installer error.
func (e *UpdateError) Error() string {
	if e.Type == UpdateErrorTypeMalformed {
		return e.Message
	}
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

func (e *UpdateError) Is(target error) bool {
	if t, ok := target.(*UpdateError); ok {
		return e.Type == t.Type
	}
	return false
}
