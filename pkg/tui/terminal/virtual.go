// ABOUTME: VirtualTerminal implements Control for testing without a real TTY.
// ABOUTME: Scripts input, captures output, tracks attribute writes and can answer cursor reports.

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// readEvent is one scripted result for Read: data, an empty (timed out)
// read when data and err are nil, or an error.
type readEvent struct {
	data []byte
	err  error
}

// VirtualTerminal is a fake Control for unit tests.
type VirtualTerminal struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	attrs Attributes
	rows  int
	cols  int

	sizeErr      error
	readAttrErr  error
	writeAttrErr error
	failWriteOn  int

	input       []readEvent
	cursorReply []byte
	attrWrites  []Attributes
	readCalls   int
}

// DefaultAttributes resembles a cooked terminal: canonical input with
// echo and signals, CR to NL translation and output post-processing.
func DefaultAttributes() Attributes {
	return Attributes{
		Input:    InputBreakInterrupt | InputCRToNL | InputFlowControl,
		Output:   OutputPostProcess,
		Control:  Control8Bit,
		Local:    LocalEcho | LocalCanonical | LocalExtended | LocalSignals,
		MinBytes: 1,
		Timeout:  0,
	}
}

// NewVirtualTerminal returns a VirtualTerminal of the given size with
// DefaultAttributes.
func NewVirtualTerminal(rows, cols int) *VirtualTerminal {
	return &VirtualTerminal{
		attrs: DefaultAttributes(),
		rows:  rows,
		cols:  cols,
	}
}

// ReadAttributes returns the current attributes.
func (v *VirtualTerminal) ReadAttributes() (Attributes, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.readAttrErr != nil {
		return Attributes{}, v.readAttrErr
	}
	return v.attrs, nil
}

// WriteAttributes records and applies a.
func (v *VirtualTerminal) WriteAttributes(a Attributes) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	call := len(v.attrWrites) + 1
	v.attrWrites = append(v.attrWrites, a)
	if v.writeAttrErr != nil && (v.failWriteOn == 0 || v.failWriteOn == call) {
		return v.writeAttrErr
	}
	v.attrs = a
	return nil
}

// WindowSize returns the configured size.
func (v *VirtualTerminal) WindowSize() (rows, cols int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sizeErr != nil {
		return 0, 0, v.sizeErr
	}
	return v.rows, v.cols, nil
}

// Read pops the next scripted event. Once the script is exhausted it
// returns io.EOF.
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.readCalls++
	if len(v.input) == 0 {
		return 0, io.EOF
	}

	ev := &v.input[0]
	if ev.err != nil || len(ev.data) == 0 {
		v.input = v.input[1:]
		return 0, ev.err
	}

	n := copy(p, ev.data)
	ev.data = ev.data[n:]
	if len(ev.data) == 0 {
		v.input = v.input[1:]
	}
	return n, nil
}

// Write appends p to the output buffer. A cursor position request is
// answered with the configured reply ahead of any scripted input.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	if v.cursorReply != nil && bytes.Contains(p, []byte(ReportCursor)) {
		reply := readEvent{data: bytes.Clone(v.cursorReply)}
		v.input = append([]readEvent{reply}, v.input...)
	}
	return n, nil
}

// --- Test helpers (not part of Control interface) ---

// Feed queues input bytes delivered by subsequent reads.
func (v *VirtualTerminal) Feed(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, readEvent{data: []byte(s)})
}

// FeedTimeout queues one read that returns no data, as VTIME expiry does.
func (v *VirtualTerminal) FeedTimeout() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, readEvent{})
}

// FeedError queues one read that fails with err.
func (v *VirtualTerminal) FeedError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, readEvent{err: err})
}

// SetCursorReply makes every cursor position request queue reply as input.
func (v *VirtualTerminal) SetCursorReply(reply string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cursorReply = []byte(reply)
}

// SetSize updates the window size.
func (v *VirtualTerminal) SetSize(rows, cols int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rows = rows
	v.cols = cols
}

// SetSizeError makes WindowSize fail with err.
func (v *VirtualTerminal) SetSizeError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sizeErr = err
}

// SetReadAttributesError makes ReadAttributes fail with err.
func (v *VirtualTerminal) SetReadAttributesError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.readAttrErr = err
}

// SetWriteAttributesError makes WriteAttributes fail with err on the
// given 1-based call, or on every call when call is 0.
func (v *VirtualTerminal) SetWriteAttributesError(err error, call int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeAttrErr = err
	v.failWriteOn = call
}

// Attributes returns the attributes currently applied.
func (v *VirtualTerminal) Attributes() Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.attrs
}

// AttributeWrites returns every attribute set passed to WriteAttributes.
func (v *VirtualTerminal) AttributeWrites() []Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]Attributes(nil), v.attrWrites...)
}

// ReadCalls returns how many times Read was called.
func (v *VirtualTerminal) ReadCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.readCalls
}

// IsRawMode reports whether canonical mode and echo are off.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.attrs.Local&(LocalCanonical|LocalEcho) == 0
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Reset clears the output buffer.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
}
