package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var nameStyle = lipgloss.NewStyle().Bold(true)

// versionBanner is printed by --version, before the terminal is touched.
func versionBanner() string {
	return fmt.Sprintf("%s %s (%s) built %s", nameStyle.Render("ked"), version, commit, date)
}
