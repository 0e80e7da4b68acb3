// ABOUTME: ProcessTerminal implements Control over stdin/stdout using golang.org/x/sys/unix.
// ABOUTME: Translates between termios records and portable Attributes without losing bits.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ProcessTerminal is the real terminal device: attributes are read and
// written on the input descriptor, the window size is queried on the
// output descriptor.
type ProcessTerminal struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
}

// NewProcessTerminal returns a ProcessTerminal bound to os.Stdin and os.Stdout.
func NewProcessTerminal() *ProcessTerminal {
	return NewTerminal(os.Stdin, os.Stdout)
}

// NewTerminal returns a ProcessTerminal bound to the given files.
// Fd puts both files into blocking mode, which VTIME relies on.
func NewTerminal(in, out *os.File) *ProcessTerminal {
	return &ProcessTerminal{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
	}
}

// InputFd returns the descriptor attributes are applied to.
func (t *ProcessTerminal) InputFd() int { return t.inFd }

// OutputFd returns the descriptor output and size queries use.
func (t *ProcessTerminal) OutputFd() int { return t.outFd }

// ReadAttributes returns the current line discipline settings.
func (t *ProcessTerminal) ReadAttributes() (Attributes, error) {
	tio, err := unix.IoctlGetTermios(t.inFd, ioctlReadTermios)
	if err != nil {
		return Attributes{}, err
	}
	return fromTermios(*tio), nil
}

// WriteAttributes applies a after draining pending output and discarding
// unread input.
func (t *ProcessTerminal) WriteAttributes(a Attributes) error {
	base, ok := a.sys.(unix.Termios)
	if !ok {
		cur, err := unix.IoctlGetTermios(t.inFd, ioctlReadTermios)
		if err != nil {
			return err
		}
		base = *cur
	}
	tio := toTermios(base, a)
	return unix.IoctlSetTermios(t.inFd, ioctlWriteTermios, &tio)
}

// WindowSize queries TIOCGWINSZ on the output descriptor.
func (t *ProcessTerminal) WindowSize() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(t.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Row), int(ws.Col), nil
}

// Read reads raw bytes from the input descriptor. With VMIN=0 a timed out
// read returns (0, nil). EAGAIN and EINTR are returned as-is.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	n, err := unix.Read(t.inFd, p)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Write sends bytes to the output file.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to %s: %w", t.out.Name(), err)
	}
	return n, nil
}

func fromTermios(tio unix.Termios) Attributes {
	a := Attributes{
		MinBytes: tio.Cc[unix.VMIN],
		Timeout:  tio.Cc[unix.VTIME],
		sys:      tio,
	}
	if hasBits(tio.Iflag, unix.BRKINT) {
		a.Input |= InputBreakInterrupt
	}
	if hasBits(tio.Iflag, unix.ICRNL) {
		a.Input |= InputCRToNL
	}
	if hasBits(tio.Iflag, unix.INPCK) {
		a.Input |= InputParityCheck
	}
	if hasBits(tio.Iflag, unix.ISTRIP) {
		a.Input |= InputStrip
	}
	if hasBits(tio.Iflag, unix.IXON) {
		a.Input |= InputFlowControl
	}
	if hasBits(tio.Oflag, unix.OPOST) {
		a.Output |= OutputPostProcess
	}
	if hasBits(tio.Cflag, unix.CS8) {
		a.Control |= Control8Bit
	}
	if hasBits(tio.Lflag, unix.ECHO) {
		a.Local |= LocalEcho
	}
	if hasBits(tio.Lflag, unix.ICANON) {
		a.Local |= LocalCanonical
	}
	if hasBits(tio.Lflag, unix.IEXTEN) {
		a.Local |= LocalExtended
	}
	if hasBits(tio.Lflag, unix.ISIG) {
		a.Local |= LocalSignals
	}
	return a
}

// toTermios overlays the portable fields of a onto base. Bits ked does
// not model are left untouched.
func toTermios(base unix.Termios, a Attributes) unix.Termios {
	tio := base
	setBits(&tio.Iflag, unix.BRKINT, a.Input&InputBreakInterrupt != 0)
	setBits(&tio.Iflag, unix.ICRNL, a.Input&InputCRToNL != 0)
	setBits(&tio.Iflag, unix.INPCK, a.Input&InputParityCheck != 0)
	setBits(&tio.Iflag, unix.ISTRIP, a.Input&InputStrip != 0)
	setBits(&tio.Iflag, unix.IXON, a.Input&InputFlowControl != 0)
	setBits(&tio.Oflag, unix.OPOST, a.Output&OutputPostProcess != 0)
	if a.Control&Control8Bit != 0 {
		tio.Cflag |= unix.CS8
	}
	setBits(&tio.Lflag, unix.ECHO, a.Local&LocalEcho != 0)
	setBits(&tio.Lflag, unix.ICANON, a.Local&LocalCanonical != 0)
	setBits(&tio.Lflag, unix.IEXTEN, a.Local&LocalExtended != 0)
	setBits(&tio.Lflag, unix.ISIG, a.Local&LocalSignals != 0)
	tio.Cc[unix.VMIN] = a.MinBytes
	tio.Cc[unix.VTIME] = a.Timeout
	return tio
}

type tcflag interface {
	~uint32 | ~uint64
}

func hasBits[T tcflag](field, mask T) bool {
	return field&mask == mask
}

func setBits[T tcflag](field *T, mask T, on bool) {
	if on {
		*field |= mask
		return
	}
	*field &^= mask
}
