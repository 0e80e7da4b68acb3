// ABOUTME: Defines the Control interface over the platform terminal device and its Attributes.
// ABOUTME: Core logic depends only on Control so it can run against a real tty or a fake.

package terminal

// Control is the capability set ked needs from the terminal device:
// attribute read/write, window size, and raw byte I/O.
type Control interface {
	ReadAttributes() (Attributes, error)
	WriteAttributes(a Attributes) error
	WindowSize() (rows, cols int, err error)
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}

// InputFlag is a portable input-mode bit (c_iflag).
type InputFlag uint32

const (
	InputBreakInterrupt InputFlag = 1 << iota // BRKINT
	InputCRToNL                               // ICRNL
	InputParityCheck                          // INPCK
	InputStrip                                // ISTRIP
	InputFlowControl                          // IXON
)

// OutputFlag is a portable output-mode bit (c_oflag).
type OutputFlag uint32

const (
	OutputPostProcess OutputFlag = 1 << iota // OPOST
)

// ControlFlag is a portable control-mode bit (c_cflag).
type ControlFlag uint32

const (
	Control8Bit ControlFlag = 1 << iota // CS8
)

// LocalFlag is a portable local-mode bit (c_lflag).
type LocalFlag uint32

const (
	LocalEcho      LocalFlag = 1 << iota // ECHO
	LocalCanonical                       // ICANON
	LocalExtended                        // IEXTEN
	LocalSignals                         // ISIG
)

// Attributes is a snapshot of the terminal line discipline settings.
// The flag fields only carry the bits ked knows about; sys keeps the
// platform record as it was read so writing it back is exact.
type Attributes struct {
	Input   InputFlag
	Output  OutputFlag
	Control ControlFlag
	Local   LocalFlag

	// MinBytes is VMIN, Timeout is VTIME in deciseconds.
	MinBytes uint8
	Timeout  uint8

	sys any
}

// Equal reports whether two snapshots describe the same settings,
// including the platform record when both carry one.
func (a Attributes) Equal(b Attributes) bool {
	if a.Input != b.Input || a.Output != b.Output || a.Control != b.Control || a.Local != b.Local {
		return false
	}
	if a.MinBytes != b.MinBytes || a.Timeout != b.Timeout {
		return false
	}
	return a.sys == b.sys
}

// MakeRaw derives raw-mode attributes from orig: no input translation,
// flow control, parity, stripping or break signals; no output
// post-processing (writers must emit "\r\n"); 8-bit chars; no canonical
// mode, echo, signals or extended input. Reads return after one byte or
// one decisecond.
func MakeRaw(orig Attributes) Attributes {
	raw := orig
	raw.Input &^= InputCRToNL | InputFlowControl | InputBreakInterrupt | InputParityCheck | InputStrip
	raw.Output &^= OutputPostProcess
	raw.Control |= Control8Bit
	raw.Local &^= LocalEcho | LocalCanonical | LocalSignals | LocalExtended
	raw.MinBytes = 0
	raw.Timeout = 1
	return raw
}
