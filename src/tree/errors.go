package tree

import "fmt"

// MalformedViewError reports data that does not fit the schema.
type MalformedViewError struct {
	Path   Path
	Reason string
}

// NewMalformedViewError ...
func NewMalformedViewError(path Path, format string, args ...interface{}) MalformedViewError {
	return MalformedViewError{
		Path:   path,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e MalformedViewError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("malformed view: %s", e.Reason)
	}
	return fmt.Sprintf("malformed view at %s: %s", e.Path, e.Reason)
}

// IsMalformed checks that an error is a MalformedViewError.
func IsMalformed(err error) bool {
	_, ok := err.(MalformedViewError)
	return ok
}
