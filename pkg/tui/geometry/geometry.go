// ABOUTME: Probe determines the screen size: TIOCGWINSZ first, then a cursor position report.
// ABOUTME: The fallback parks the cursor at the far corner and parses ESC [ rows ; cols R.

package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mauromedda/ked/pkg/tui/terminal"
)

// ErrUnavailable is returned when neither strategy yields a usable size.
var ErrUnavailable = errors.New("screen geometry unavailable")

// replyBufferSize bounds the cursor report read. A reply that fills it
// without a terminator is malformed.
const replyBufferSize = 32

// Size is the visible screen in character cells. Both fields are positive.
type Size struct {
	Rows int
	Cols int
}

// String renders the size as ROWSxCOLS.
func (s Size) String() string {
	return strconv.Itoa(s.Rows) + "x" + strconv.Itoa(s.Cols)
}

// Strategy names the method that produced a Size.
type Strategy string

const (
	StrategyWindowSize  Strategy = "winsize"
	StrategyCursorProbe Strategy = "cursor-probe"
)

// Probe queries the terminal geometry through a Control.
type Probe struct {
	ctl  terminal.Control
	last Strategy
}

// NewProbe returns a Probe bound to ctl.
func NewProbe(ctl terminal.Control) *Probe {
	return &Probe{ctl: ctl}
}

// Query returns the current screen size. It may be called again at any
// time, e.g. after a resize. The fallback expects raw mode so the reply
// is neither echoed nor line buffered.
func (p *Probe) Query() (Size, error) {
	rows, cols, err := p.ctl.WindowSize()
	if err == nil && rows > 0 && cols > 0 {
		p.last = StrategyWindowSize
		return Size{Rows: rows, Cols: cols}, nil
	}

	size, perr := p.cursorProbe()
	if perr != nil {
		if err != nil {
			return Size{}, fmt.Errorf("%w (window size query: %v)", perr, err)
		}
		return Size{}, perr
	}
	p.last = StrategyCursorProbe
	return size, nil
}

// Strategy reports which method answered the last successful Query.
func (p *Probe) Strategy() Strategy {
	return p.last
}

func (p *Probe) cursorProbe() (Size, error) {
	if _, err := p.ctl.Write([]byte(terminal.CursorFarCorner)); err != nil {
		return Size{}, fmt.Errorf("%w: moving cursor: %v", ErrUnavailable, err)
	}
	if _, err := p.ctl.Write([]byte(terminal.ReportCursor)); err != nil {
		return Size{}, fmt.Errorf("%w: requesting cursor position: %v", ErrUnavailable, err)
	}

	reply, err := p.readReply()
	if err != nil {
		return Size{}, err
	}
	return ParseCursorReport(reply)
}

// readReply collects the report from the input stream one byte at a
// time until 'R', an empty (timed out) read, or a full buffer. Transient
// errors are retried the same way terminal.ReadUnit retries them.
func (p *Probe) readReply() ([]byte, error) {
	buf := make([]byte, 0, replyBufferSize)
	var b [1]byte
	for len(buf) < replyBufferSize {
		n, err := p.ctl.Read(b[:])
		if err != nil {
			if terminal.Transient(err) {
				continue
			}
			return nil, fmt.Errorf("%w: reading cursor report: %v", ErrUnavailable, err)
		}
		if n == 0 {
			break
		}
		buf = append(buf, b[0])
		if b[0] == 'R' {
			break
		}
	}
	return buf, nil
}

// ParseCursorReport parses a device status report of the form
// ESC [ rows ; cols R.
func ParseCursorReport(reply []byte) (Size, error) {
	if len(reply) < 2 || reply[0] != 0x1b || reply[1] != '[' {
		return Size{}, fmt.Errorf("%w: cursor report %q lacks ESC [", ErrUnavailable, reply)
	}
	if reply[len(reply)-1] != 'R' {
		return Size{}, fmt.Errorf("%w: cursor report %q is not terminated", ErrUnavailable, reply)
	}

	body := string(reply[2 : len(reply)-1])
	rowsField, colsField, ok := strings.Cut(body, ";")
	if !ok {
		return Size{}, fmt.Errorf("%w: cursor report %q has no separator", ErrUnavailable, reply)
	}

	rows, err := parseField(rowsField)
	if err != nil {
		return Size{}, fmt.Errorf("%w: cursor report rows: %v", ErrUnavailable, err)
	}
	cols, err := parseField(colsField)
	if err != nil {
		return Size{}, fmt.Errorf("%w: cursor report cols: %v", ErrUnavailable, err)
	}
	return Size{Rows: rows, Cols: cols}, nil
}

func parseField(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty field")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-numeric field %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("field %q is not positive", s)
	}
	return n, nil
}
