package interchange

import (
	"errors"
	"fmt"
)

// ErrFormat is the kind of every malformed-document error.
var ErrFormat = errors.New("malformed interchange document")

// FormatError reports a document that could not be parsed at all.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrFormat, e.Format)
	}
	return fmt.Sprintf("%s: %s: %v", ErrFormat, e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFormat) hold for any FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
