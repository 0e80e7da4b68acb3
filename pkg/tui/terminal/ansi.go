package terminal

import "strconv"

// Escape sequences ked writes to the terminal.
const (
	ClearScreen     = "\x1b[2J"
	CursorHome      = "\x1b[H"
	CursorFarCorner = "\x1b[999C\x1b[999B"
	ReportCursor    = "\x1b[6n"
)

// Cursor shapes accepted by DECSCUSR (ESC [ n SP q).
const (
	CursorShapeDefault         = 0
	CursorShapeBlinkBlock      = 1
	CursorShapeSteadyBlock     = 2
	CursorShapeBlinkUnderline  = 3
	CursorShapeSteadyUnderline = 4
	CursorShapeBlinkBar        = 5
	CursorShapeSteadyBar       = 6
	maxCursorShape             = CursorShapeSteadyBar
)

// CursorShape returns the DECSCUSR sequence selecting shape n.
func CursorShape(n int) string {
	return "\x1b[" + strconv.Itoa(n) + " q"
}

// ValidCursorShape reports whether n is a DECSCUSR shape.
func ValidCursorShape(n int) bool {
	return n >= CursorShapeDefault && n <= maxCursorShape
}
