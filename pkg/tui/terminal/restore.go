// ABOUTME: Fatal-error handling: Abort cleans the display and reports; RestoreOnPanic covers panics.
// ABOUTME: Both write escape sequences straight to the device, never through the renderer.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// ExitFailure is the process status after a fatal error.
const ExitFailure = 1

// Abort leaves the display clean (screen cleared, cursor home), prints
// err to errOut and returns the exit status the process must end with.
// Raw mode is expected to have been released by the session guard.
func Abort(w io.Writer, errOut io.Writer, err error) int {
	_, _ = io.WriteString(w, ClearScreen+CursorHome)
	fmt.Fprintf(errOut, "ked: %v\n", err)
	return ExitFailure
}

// RestoreOnPanic should be deferred at the top of main. On panic it
// clears the screen, runs restore (normally Session.Restore, which is
// a no-op if the session already released raw mode), prints the panic
// value and stack trace, then exits with code 1.
func RestoreOnPanic(w io.Writer, restore func() error) {
	r := recover()
	if r == nil {
		return
	}

	_, _ = io.WriteString(w, ClearScreen+CursorHome)
	if restore != nil {
		_ = restore()
	}

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(ExitFailure)
}
