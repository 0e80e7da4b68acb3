package terminal

import "errors"

// Error classes for terminal device failures. Callers match them with
// errors.Is; the wrapped error carries the OS description.
var (
	ErrTerminalQuery     = errors.New("reading terminal attributes")
	ErrTerminalConfigure = errors.New("applying raw mode attributes")
	ErrTerminalRestore   = errors.New("restoring terminal attributes")
	ErrRead              = errors.New("reading input")
)

// opError pairs an error class with the underlying cause so both
// errors.Is(err, ErrRead) and errors.Is(err, unix.EIO) hold.
type opError struct {
	class error
	cause error
}

func (e *opError) Error() string {
	return e.class.Error() + ": " + e.cause.Error()
}

func (e *opError) Unwrap() []error {
	return []error{e.class, e.cause}
}

func wrap(class, cause error) error {
	return &opError{class: class, cause: cause}
}
