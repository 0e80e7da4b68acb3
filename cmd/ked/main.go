// ABOUTME: CLI entry point for ked with terminal crash recovery
// ABOUTME: Parses flags, loads config, checks for a tty and runs the editor loop

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/mauromedda/ked/internal/config"
	"github.com/mauromedda/ked/internal/editor"
	"github.com/mauromedda/ked/internal/input"
	"github.com/mauromedda/ked/internal/log"
	"github.com/mauromedda/ked/pkg/tui/terminal"
)

const exitUsage = 2

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "ked: %v\n", err)
		os.Exit(exitUsage)
	}

	if args.version {
		fmt.Println(versionBanner())
		os.Exit(0)
	}

	os.Exit(run(args))
}

// run performs initialization and the editor session, returning the
// process exit status.
func run(args cliArgs) int {
	closeLog, err := setupLogging(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ked: %v\n", err)
		return terminal.ExitFailure
	}
	defer closeLog()

	settings, err := loadSettings(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ked: %v\n", err)
		return terminal.ExitFailure
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "ked: stdin and stdout must be a terminal")
		return terminal.ExitFailure
	}

	// ISIG is off in raw mode, but any of these can still be sent with
	// kill(2). The read loop notices them between polls and Run restores
	// the terminal before returning.
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer stop()

	ctl := terminal.NewProcessTerminal()
	ed := editor.New(ctl,
		editor.WithCursorShape(settings.CursorShape),
		editor.WithMarker(settings.Marker),
		editor.WithBindings(input.Bindings{Quit: settings.Quit, Refresh: settings.Refresh}),
	)
	defer terminal.RestoreOnPanic(ctl, ed.Restore)

	log.Info("starting: quit=%s refresh=%s", settings.Quit, settings.Refresh)
	if err := ed.Run(ctx); err != nil {
		log.Error("%v", err)
		return terminal.Abort(ctl, os.Stderr, err)
	}
	log.Info("clean exit")
	return 0
}

// setupLogging sends logs to --log-file, or discards them: stderr shares
// the screen with the editor.
func setupLogging(args cliArgs) (func(), error) {
	if args.verbose {
		log.SetLevel(log.LevelDebug)
	}
	if args.logFile == "" {
		prev := log.SetOutput(io.Discard)
		return func() { log.SetOutput(prev) }, nil
	}

	closer, err := log.OpenFile(args.logFile)
	if err != nil {
		return nil, err
	}
	return func() { _ = closer.Close() }, nil
}

func loadSettings(args cliArgs) (config.Resolved, error) {
	var (
		s   *config.Settings
		err error
	)
	if args.config != "" {
		s, err = config.LoadFile(args.config)
	} else {
		cwd, werr := os.Getwd()
		if werr != nil {
			return config.Resolved{}, fmt.Errorf("getting working directory: %w", werr)
		}
		s, err = config.Load(cwd)
	}
	if err != nil {
		return config.Resolved{}, err
	}

	resolved, err := s.Resolve()
	if err != nil {
		return config.Resolved{}, fmt.Errorf("invalid config: %w", err)
	}
	return resolved, nil
}
