// ABOUTME: Renderer repaints the whole screen: clear, home, one marker per row, home again.
// ABOUTME: The frame is assembled in a reused buffer and written with a single call.

package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mauromedda/ked/pkg/tui/geometry"
	"github.com/mauromedda/ked/pkg/tui/terminal"
)

// DefaultMarker is drawn at the start of every row that has no text.
const DefaultMarker = "~"

// Renderer draws full frames to w. Raw mode disables output
// post-processing, so rows are separated by explicit "\r\n".
type Renderer struct {
	w      io.Writer
	marker string
	frame  bytes.Buffer
	frames int
}

// New returns a Renderer writing to w. An empty marker selects DefaultMarker.
func New(w io.Writer, marker string) *Renderer {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Renderer{w: w, marker: marker}
}

// Refresh repaints the screen for size. The last row has no trailing
// separator so the final cursor-home is not pushed down a line.
func (r *Renderer) Refresh(size geometry.Size) error {
	r.frame.Reset()
	r.frame.WriteString(terminal.ClearScreen)
	r.frame.WriteString(terminal.CursorHome)
	r.drawRows(size.Rows)
	r.frame.WriteString(terminal.CursorHome)

	if _, err := r.w.Write(r.frame.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	r.frames++
	return nil
}

func (r *Renderer) drawRows(rows int) {
	for y := 0; y < rows; y++ {
		r.frame.WriteString(r.marker)
		if y < rows-1 {
			r.frame.WriteString("\r\n")
		}
	}
}

// Frames returns how many frames were written.
func (r *Renderer) Frames() int {
	return r.frames
}
