// ABOUTME: Editor composes session, geometry probe, renderer and dispatcher into the run loop.
// ABOUTME: Each cycle repaints fully, then blocks on one input unit; quit ends the loop cleanly.

package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/mauromedda/ked/internal/input"
	"github.com/mauromedda/ked/internal/log"
	"github.com/mauromedda/ked/internal/render"
	"github.com/mauromedda/ked/pkg/tui/geometry"
	"github.com/mauromedda/ked/pkg/tui/terminal"
)

// Status is the loop state.
type Status int

const (
	StatusStarting Status = iota
	StatusRunning
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusTerminated:
		return "terminated"
	default:
		return "starting"
	}
}

// State is everything the loop reads: the raw-mode session, the screen
// size and the cursor shape. It is filled in during initialisation and
// not modified afterwards.
type State struct {
	Session     *terminal.Session
	Size        geometry.Size
	CursorShape int
}

// Editor owns the terminal for the duration of Run.
type Editor struct {
	ctl        terminal.Control
	probe      *geometry.Probe
	renderer   *render.Renderer
	dispatcher *input.Dispatcher

	cursorShape int
	marker      string
	bindings    input.Bindings

	state  State
	status Status
}

// Option configures an Editor.
type Option func(*Editor)

// WithCursorShape selects the DECSCUSR shape set at startup.
func WithCursorShape(n int) Option {
	return func(e *Editor) { e.cursorShape = n }
}

// WithMarker sets the glyph drawn on empty rows.
func WithMarker(m string) Option {
	return func(e *Editor) { e.marker = m }
}

// WithBindings replaces the default key bindings.
func WithBindings(b input.Bindings) Option {
	return func(e *Editor) { e.bindings = b }
}

// New returns an Editor driving ctl. Nothing touches the device until Run.
func New(ctl terminal.Control, opts ...Option) *Editor {
	e := &Editor{
		ctl:         ctl,
		cursorShape: terminal.CursorShapeBlinkBlock,
		marker:      render.DefaultMarker,
		bindings:    input.DefaultBindings(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.probe = geometry.NewProbe(ctl)
	e.renderer = render.New(ctl, e.marker)
	e.dispatcher = input.NewDispatcher(ctl, e.bindings)
	return e
}

// Run enters raw mode, initialises the state and loops until the quit
// binding is pressed (nil) or a fatal error occurs. Raw mode is released
// before Run returns on every path.
func (e *Editor) Run(ctx context.Context) (err error) {
	defer func() { e.status = StatusTerminated }()

	sess, err := terminal.EnterRawMode(e.ctl)
	if err != nil {
		return err
	}
	e.state.Session = sess
	defer func() {
		if rerr := sess.Restore(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	if err := e.init(); err != nil {
		return err
	}
	return e.loop(ctx)
}

func (e *Editor) init() error {
	size, err := e.probe.Query()
	if err != nil {
		return err
	}
	e.state.Size = size
	log.Debug("geometry %s via %s", size, e.probe.Strategy())

	if _, err := e.ctl.Write([]byte(terminal.CursorShape(e.cursorShape))); err != nil {
		return fmt.Errorf("setting cursor shape: %w", err)
	}
	e.state.CursorShape = e.cursorShape
	e.status = StatusRunning
	return nil
}

func (e *Editor) loop(ctx context.Context) error {
	for {
		if err := e.renderer.Refresh(e.state.Size); err != nil {
			return err
		}

		k, err := e.dispatcher.ReadUnit(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("interrupted: %w", err)
			}
			return err
		}

		action := e.dispatcher.Dispatch(k)
		if action != input.ActionNone {
			log.Debug("key %s -> %s", k, action)
		}

		switch action {
		case input.ActionQuit:
			e.shutdown()
			return nil
		case input.ActionRefresh:
			if err := e.renderer.Refresh(e.state.Size); err != nil {
				return err
			}
		}
	}
}

// shutdown leaves a blank screen with the cursor home and the default
// cursor shape. Raw mode is released by Run's deferred restore.
func (e *Editor) shutdown() {
	seq := terminal.ClearScreen + terminal.CursorHome + terminal.CursorShape(terminal.CursorShapeDefault)
	if _, err := e.ctl.Write([]byte(seq)); err != nil {
		log.Warn("clearing screen on quit: %v", err)
	}
	e.status = StatusTerminated
}

// Restore releases raw mode if it is still held. It is safe to call at
// any time, including from a panic handler.
func (e *Editor) Restore() error {
	return e.state.Session.Restore()
}

// Status returns the loop state.
func (e *Editor) Status() Status {
	return e.status
}

// State returns a copy of the process state.
func (e *Editor) State() State {
	return e.state
}

// Renderer exposes the renderer, mainly for frame counting in tests.
func (e *Editor) Renderer() *render.Renderer {
	return e.renderer
}
