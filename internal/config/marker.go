package config

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// NormalizeMarker returns the NFC form of m after checking it is a
// single grapheme cluster occupying exactly one terminal cell.
func NormalizeMarker(m string) (string, error) {
	n := norm.NFC.String(m)
	if c := uniseg.GraphemeClusterCount(n); c != 1 {
		return "", fmt.Errorf("marker %q: want one character, got %d", m, c)
	}
	if w := runewidth.StringWidth(n); w != 1 {
		return "", fmt.Errorf("marker %q: want display width 1, got %d", m, w)
	}
	return n, nil
}
