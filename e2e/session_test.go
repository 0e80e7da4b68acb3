//go:build linux

// ABOUTME: PTY harness for e2e tests: builds the ked binary and drives it through a pseudo-terminal
// ABOUTME: Output is pumped by an errgroup goroutine into a buffer the tests poll

package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

var kedBinary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ked-e2e-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating temp dir: %v\n", err)
		os.Exit(1)
	}
	kedBinary = filepath.Join(dir, "ked")

	build := exec.Command("go", "build", "-o", kedBinary, "../cmd/ked")
	build.Stdout = os.Stderr
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "building ked: %v\n", err)
		_ = os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type kedSession struct {
	cmd  *exec.Cmd
	ptmx *os.File
	tty  *os.File
	home string

	// initial is the tty's termios before ked started.
	initial unix.Termios

	mu  sync.Mutex
	out bytes.Buffer

	group  *errgroup.Group
	cancel context.CancelFunc
	exited chan error
}

func startKed(t *testing.T, args ...string) *kedSession {
	t.Helper()
	return startKedSize(t, &pty.Winsize{Rows: 24, Cols: 80}, args...)
}

func startKedSize(t *testing.T, ws *pty.Winsize, args ...string) *kedSession {
	t.Helper()

	home := t.TempDir()
	cmd := exec.Command(kedBinary, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "KED_HOME="+filepath.Join(home, ".ked"), "TERM=xterm-256color")

	// The tty stays open on our side so its termios can still be read
	// after ked exits.
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	if err := pty.Setsize(ptmx, ws); err != nil {
		t.Fatalf("pty.Setsize: %v", err)
	}
	initial, err := unix.IoctlGetTermios(int(tty.Fd()), unix.TCGETS)
	if err != nil {
		t.Fatalf("reading initial termios: %v", err)
	}

	cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}
	if err := cmd.Start(); err != nil {
		_ = ptmx.Close()
		_ = tty.Close()
		t.Fatalf("starting ked: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(ctx)
	s := &kedSession{
		cmd:     cmd,
		ptmx:    ptmx,
		tty:     tty,
		home:    home,
		initial: *initial,
		group:   g,
		cancel:  cancel,
		exited:  make(chan error, 1),
	}

	g.Go(func() error {
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				s.mu.Lock()
				s.out.Write(buf[:n])
				s.mu.Unlock()
			}
			if err != nil {
				// The last tty descriptor closing surfaces as EIO on Linux.
				if errors.Is(err, io.EOF) || errors.Is(err, unix.EIO) || errors.Is(err, os.ErrClosed) {
					return nil
				}
				return err
			}
		}
	})
	go func() { s.exited <- cmd.Wait() }()

	return s
}

func (s *kedSession) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.String()
}

func (s *kedSession) send(t *testing.T, text string) {
	t.Helper()
	if _, err := s.ptmx.Write([]byte(text)); err != nil {
		t.Fatalf("writing to pty: %v", err)
	}
}

func (s *kedSession) sendCtrl(t *testing.T, r byte) {
	t.Helper()
	s.send(t, string([]byte{r & 0x1f}))
}

// expectCount waits until substr appears at least n times in the output.
func (s *kedSession) expectCount(t *testing.T, substr string, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Count(s.output(), substr) >= n {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d x %q; output so far:\n%q", n, substr, s.output())
}

func (s *kedSession) expectStringTimeout(t *testing.T, substr string, timeout time.Duration) {
	t.Helper()
	s.expectCount(t, substr, 1, timeout)
}

// waitExit waits for the process and returns its exit code.
func (s *kedSession) waitExit(t *testing.T, timeout time.Duration) int {
	t.Helper()
	select {
	case err := <-s.exited:
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			return 0
		case errors.As(err, &exitErr):
			return exitErr.ExitCode()
		default:
			t.Fatalf("waiting for ked: %v", err)
		}
	case <-time.After(timeout):
		t.Fatalf("ked did not exit within %v; output:\n%q", timeout, s.output())
	}
	return -1
}

// termios reads the tty's current attributes.
func (s *kedSession) termios(t *testing.T) unix.Termios {
	t.Helper()
	tio, err := unix.IoctlGetTermios(int(s.tty.Fd()), unix.TCGETS)
	if err != nil {
		t.Fatalf("reading termios: %v", err)
	}
	return *tio
}

// expectRestored fails unless the tty is back to its pre-start attributes.
func (s *kedSession) expectRestored(t *testing.T) {
	t.Helper()
	if got := s.termios(t); got != s.initial {
		t.Errorf("termios after exit = %+v, want %+v", got, s.initial)
	}
}

func (s *kedSession) close() {
	// Kill after exit only reports os.ErrProcessDone.
	_ = s.cmd.Process.Kill()
	// Dropping our tty descriptor lets the pump see EIO once ked is gone.
	_ = s.tty.Close()
	_ = s.group.Wait()
	s.cancel()
	_ = s.ptmx.Close()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
