package terminal

import (
	"context"
	"errors"

	"golang.org/x/sys/unix"
)

// ReadUnit blocks until exactly one byte is available from ctl. Raw mode
// makes each read return after at most one decisecond, so empty reads and
// transient EAGAIN/EINTR results are retried; ctx is checked between
// attempts. Any other failure, including EOF, wraps ErrRead.
func ReadUnit(ctx context.Context, ctl Control) (byte, error) {
	var b [1]byte
	for {
		n, err := ctl.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil && !Transient(err) {
			return 0, wrap(ErrRead, err)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
}

// Transient reports whether a read error only means "try again".
func Transient(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR)
}
