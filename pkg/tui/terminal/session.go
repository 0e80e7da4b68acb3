// ABOUTME: Session is the scoped raw-mode guard: EnterRawMode acquires, Restore releases.
// ABOUTME: Restore writes the saved snapshot back once; later calls are no-ops.

package terminal

// Session owns the attributes that were in effect before raw mode.
type Session struct {
	ctl      Control
	orig     Attributes
	raw      Attributes
	active   bool
	restores int
}

// EnterRawMode snapshots the current attributes and switches ctl to raw
// mode. The caller must arrange for Restore to run on every exit path,
// normally with defer right after a successful call.
func EnterRawMode(ctl Control) (*Session, error) {
	orig, err := ctl.ReadAttributes()
	if err != nil {
		return nil, wrap(ErrTerminalQuery, err)
	}

	raw := MakeRaw(orig)
	if err := ctl.WriteAttributes(raw); err != nil {
		return nil, wrap(ErrTerminalConfigure, err)
	}

	return &Session{ctl: ctl, orig: orig, raw: raw, active: true}, nil
}

// Restore reapplies the original attributes. Only the first call touches
// the device.
func (s *Session) Restore() error {
	if s == nil || !s.active {
		return nil
	}
	s.active = false
	s.restores++
	if err := s.ctl.WriteAttributes(s.orig); err != nil {
		return wrap(ErrTerminalRestore, err)
	}
	return nil
}

// Active reports whether raw mode is still in effect.
func (s *Session) Active() bool {
	return s != nil && s.active
}

// Original returns the snapshot taken before raw mode.
func (s *Session) Original() Attributes {
	return s.orig
}

// Raw returns the attributes applied by EnterRawMode.
func (s *Session) Raw() Attributes {
	return s.raw
}

// Restores returns how many times Restore reached the device.
func (s *Session) Restores() int {
	if s == nil {
		return 0
	}
	return s.restores
}
