// ABOUTME: Defines the Key type for single raw input units and parses binding names like "ctrl+q".
// ABOUTME: Unknown names are rejected with a fuzzy-matched suggestion.

package key

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Key is one raw input unit as delivered in raw mode.
type Key byte

// Named non-printable keys.
const (
	Tab       Key = 0x09
	Enter     Key = 0x0d
	Escape    Key = 0x1b
	Backspace Key = 0x7f
)

// Ctrl returns the unit a terminal sends for Ctrl plus letter r: the
// letter's low five bits.
func Ctrl(r rune) Key {
	return Key(r & 0x1f)
}

// IsCtrl reports whether k is a C0 control character or DEL.
func (k Key) IsCtrl() bool {
	return k < 0x20 || k == Backspace
}

// namedKeys maps canonical names of non-letter control keys to units.
var namedKeys = map[string]Key{
	"tab":       Tab,
	"enter":     Enter,
	"esc":       Escape,
	"backspace": Backspace,
}

// String returns the canonical binding name for k.
func (k Key) String() string {
	for name, nk := range namedKeys {
		if nk == k {
			return name
		}
	}
	switch {
	case k >= 0x01 && k <= 0x1a:
		return "ctrl+" + string(rune('a'+k-1))
	case k >= 0x20 && k < 0x7f:
		return string(rune(k))
	}
	return fmt.Sprintf("0x%02x", byte(k))
}

// Names returns every canonical binding name Parse accepts besides
// single printable characters. Ctrl+I and Ctrl+M are the same units as
// tab and enter and are listed under those names.
func Names() []string {
	names := make([]string, 0, 24+len(namedKeys))
	for r := 'a'; r <= 'z'; r++ {
		if r == 'i' || r == 'm' {
			continue
		}
		names = append(names, "ctrl+"+string(r))
	}
	return append(names, "tab", "enter", "esc", "backspace")
}

// Parse converts a binding name into its input unit. It accepts
// "ctrl+q", "ctrl-q", "C-q", "^Q", the names listed by Names, and single
// printable ASCII characters. Matching is case-insensitive except for
// the single character form.
func Parse(name string) (Key, error) {
	raw := strings.TrimSpace(name)
	if len(raw) == 1 && raw[0] >= 0x20 && raw[0] < 0x7f {
		return Key(raw[0]), nil
	}

	s := strings.ToLower(raw)
	if k, ok := namedKeys[s]; ok {
		return k, nil
	}
	if s == "escape" {
		return Escape, nil
	}

	for _, prefix := range []string{"ctrl+", "ctrl-", "c-", "^"} {
		rest, ok := strings.CutPrefix(s, prefix)
		if ok && len(rest) == 1 && rest[0] >= 'a' && rest[0] <= 'z' {
			return Ctrl(rune(rest[0])), nil
		}
	}

	return 0, unknownKeyError(raw)
}

func unknownKeyError(name string) error {
	matches := fuzzy.Find(strings.ToLower(name), Names())
	if len(matches) > 0 {
		return fmt.Errorf("unknown key %q (did you mean %q?)", name, matches[0].Str)
	}
	return fmt.Errorf("unknown key %q", name)
}
