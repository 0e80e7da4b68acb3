//go:build linux

// ABOUTME: E2E tests for the editor loop: Ctrl+Q quit, Ctrl+R repaint, terminal restore
// ABOUTME: Runs the real binary behind a PTY and inspects the byte stream it writes

package e2e

import (
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

const (
	clearHome = "\x1b[2J\x1b[H"
	quitTail  = "\x1b[2J\x1b[H\x1b[0 q"
)

func TestEditor_CtrlQ_Exits(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKed(t)
	defer s.close()

	s.expectStringTimeout(t, clearHome, 5*time.Second)
	s.sendCtrl(t, 'q')

	if code := s.waitExit(t, 5*time.Second); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	s.expectStringTimeout(t, quitTail, 2*time.Second)
}

func TestEditor_DrawsMarkerRows(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKedSize(t, &pty.Winsize{Rows: 6, Cols: 40})
	defer s.close()

	frame := clearHome + strings.Repeat("~\r\n", 5) + "~" + "\x1b[H"
	s.expectStringTimeout(t, frame, 5*time.Second)

	s.sendCtrl(t, 'q')
	s.waitExit(t, 5*time.Second)
}

func TestEditor_CtrlR_Repaints(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKedSize(t, &pty.Winsize{Rows: 3, Cols: 20})
	defer s.close()

	frame := clearHome + "~\r\n~\r\n~\x1b[H"
	s.expectCount(t, frame, 1, 5*time.Second)

	// Ctrl+R paints once for the action and once more at the top of the loop.
	s.sendCtrl(t, 'r')
	s.expectCount(t, frame, 3, 5*time.Second)

	s.sendCtrl(t, 'q')
	if code := s.waitExit(t, 5*time.Second); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestEditor_RestoresTerminalModes(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKed(t)
	defer s.close()

	s.expectStringTimeout(t, clearHome, 5*time.Second)

	raw := s.termios(t)
	if raw.Lflag&unix.ICANON != 0 || raw.Lflag&unix.ECHO != 0 {
		t.Errorf("running editor left ICANON/ECHO set: lflag=%#x", raw.Lflag)
	}

	s.sendCtrl(t, 'q')
	s.waitExit(t, 5*time.Second)
	s.expectRestored(t)
}

func TestEditor_ConfigMarker(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	dir := t.TempDir()
	cfg := dir + "/ked.yaml"
	writeFile(t, cfg, "marker: \"*\"\ncursor_shape: 2\nkeys:\n  quit: ctrl+x\n")

	s := startKedSize(t, &pty.Winsize{Rows: 2, Cols: 20}, "--config", cfg)
	defer s.close()

	s.expectStringTimeout(t, "\x1b[2 q", 5*time.Second)
	s.expectStringTimeout(t, clearHome+"*\r\n*\x1b[H", 5*time.Second)

	// The default quit key is no longer bound.
	s.sendCtrl(t, 'q')
	s.sendCtrl(t, 'x')
	if code := s.waitExit(t, 5*time.Second); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestEditor_InvalidConfigFails(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	dir := t.TempDir()
	cfg := dir + "/ked.yaml"
	writeFile(t, cfg, "keys:\n  quit: ctrl+r\n")

	s := startKed(t, "--config", cfg)
	defer s.close()

	if code := s.waitExit(t, 5*time.Second); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	s.expectStringTimeout(t, "invalid config", 2*time.Second)
}

func TestEditor_Signals_RestoreAndFail(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	signals := []struct {
		name string
		sig  unix.Signal
	}{
		{name: "SIGTERM", sig: unix.SIGTERM},
		{name: "SIGHUP", sig: unix.SIGHUP},
		{name: "SIGINT", sig: unix.SIGINT},
		{name: "SIGQUIT", sig: unix.SIGQUIT},
	}

	for _, tt := range signals {
		t.Run(tt.name, func(t *testing.T) {
			s := startKed(t)
			defer s.close()

			s.expectStringTimeout(t, clearHome, 5*time.Second)
			if err := s.cmd.Process.Signal(tt.sig); err != nil {
				t.Fatalf("sending %s: %v", tt.name, err)
			}
			if code := s.waitExit(t, 5*time.Second); code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			s.expectStringTimeout(t, "interrupted", 2*time.Second)
			s.expectRestored(t)
		})
	}
}
