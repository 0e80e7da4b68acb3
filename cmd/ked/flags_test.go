// ABOUTME: Tests for CLI flag parsing and the version banner
// ABOUTME: Exercises parseFlags directly with an isolated FlagSet

package main

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		argv []string
		want cliArgs
	}{
		{name: "none", argv: nil, want: cliArgs{}},
		{name: "version", argv: []string{"--version"}, want: cliArgs{version: true}},
		{name: "verbose with log", argv: []string{"-verbose", "-log-file", "/tmp/ked.log"}, want: cliArgs{verbose: true, logFile: "/tmp/ked.log"}},
		{name: "config", argv: []string{"--config=/etc/ked.yaml"}, want: cliArgs{config: "/etc/ked.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseFlags(tt.argv, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags(%v) unexpected error: %v", tt.argv, err)
			}
			if got != tt.want {
				t.Errorf("parseFlags(%v) = %+v, want %+v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	if _, err := parseFlags([]string{"notes.txt"}, io.Discard); err == nil || !strings.Contains(err.Error(), "notes.txt") {
		t.Errorf("positional argument err = %v, want unexpected argument", err)
	}
	if _, err := parseFlags([]string{"--bogus"}, io.Discard); err == nil {
		t.Error("unknown flag should fail")
	}
	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h err = %v, want flag.ErrHelp", err)
	}
}

func TestVersionBanner(t *testing.T) {
	t.Parallel()

	got := versionBanner()
	if !strings.Contains(got, "ked") || !strings.Contains(got, version) {
		t.Errorf("versionBanner() = %q, want name and version", got)
	}
}

func TestLoadSettings_ExplicitConfig(t *testing.T) {
	t.Parallel()

	if _, err := loadSettings(cliArgs{config: "/nonexistent/ked.yaml"}); err == nil {
		t.Error("missing --config file should fail")
	}
}
