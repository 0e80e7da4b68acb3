// ABOUTME: Dispatcher reads one raw input unit at a time and maps it to an editor action.
// ABOUTME: Only quit and refresh are bound; every other unit is inert for now.

package input

import (
	"context"

	"github.com/mauromedda/ked/pkg/tui/key"
	"github.com/mauromedda/ked/pkg/tui/terminal"
)

// Action is what the editor loop should do in response to a unit.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRefresh
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionRefresh:
		return "refresh"
	default:
		return "none"
	}
}

// Bindings assigns input units to actions.
type Bindings struct {
	Quit    key.Key
	Refresh key.Key
}

// DefaultBindings returns Ctrl-Q to quit and Ctrl-R to refresh.
func DefaultBindings() Bindings {
	return Bindings{
		Quit:    key.Ctrl('q'),
		Refresh: key.Ctrl('r'),
	}
}

// Dispatcher turns raw input into actions.
type Dispatcher struct {
	ctl      terminal.Control
	bindings Bindings
}

// NewDispatcher returns a Dispatcher reading from ctl.
func NewDispatcher(ctl terminal.Control, b Bindings) *Dispatcher {
	return &Dispatcher{ctl: ctl, bindings: b}
}

// ReadUnit waits for the next input unit. Errors wrap terminal.ErrRead,
// or are ctx.Err() when ctx ends while waiting.
func (d *Dispatcher) ReadUnit(ctx context.Context) (key.Key, error) {
	b, err := terminal.ReadUnit(ctx, d.ctl)
	if err != nil {
		return 0, err
	}
	return key.Key(b), nil
}

// Dispatch maps a unit to its action.
func (d *Dispatcher) Dispatch(k key.Key) Action {
	switch k {
	case d.bindings.Quit:
		return ActionQuit
	case d.bindings.Refresh:
		return ActionRefresh
	default:
		return ActionNone
	}
}
