// ABOUTME: Settings loading with global + project YAML deep merge and validation
// ABOUTME: Resolve turns raw settings into the values the editor runs with

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/ked/pkg/tui/key"
	"github.com/mauromedda/ked/pkg/tui/terminal"
)

// Settings holds the merged configuration as written in the files.
// Zero values mean "not set".
type Settings struct {
	CursorShape *int        `yaml:"cursor_shape,omitempty"`
	Marker      string      `yaml:"marker,omitempty"`
	Keys        KeySettings `yaml:"keys,omitempty"`
}

// KeySettings names the units bound to editor actions.
type KeySettings struct {
	Quit    string `yaml:"quit,omitempty"`
	Refresh string `yaml:"refresh,omitempty"`
}

// Defaults used when a setting is absent.
const (
	DefaultCursorShape = terminal.CursorShapeBlinkBlock
	DefaultMarker      = "~"
	DefaultQuitKey     = "ctrl+q"
	DefaultRefreshKey  = "ctrl+r"
)

// Resolved is the validated configuration the editor consumes.
type Resolved struct {
	CursorShape int
	Marker      string
	Quit        key.Key
	Refresh     key.Key
}

// Load reads and merges global and project-local settings.
// Project settings override global settings. Missing files are not an error.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return merge(global, project), nil
}

// LoadFile reads settings from a single explicit path; the file must exist.
func LoadFile(path string) (*Settings, error) {
	s, err := loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return s, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge deep-merges project settings onto global settings.
// Non-zero project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.CursorShape != nil {
		shape := *project.CursorShape
		result.CursorShape = &shape
	}
	if project.Marker != "" {
		result.Marker = project.Marker
	}
	if project.Keys.Quit != "" {
		result.Keys.Quit = project.Keys.Quit
	}
	if project.Keys.Refresh != "" {
		result.Keys.Refresh = project.Keys.Refresh
	}

	return &result
}

// Resolve validates s and fills in defaults. All problems are reported
// together.
func (s *Settings) Resolve() (Resolved, error) {
	r := Resolved{
		CursorShape: DefaultCursorShape,
		Marker:      DefaultMarker,
	}
	var errs []error

	if s.CursorShape != nil {
		if terminal.ValidCursorShape(*s.CursorShape) {
			r.CursorShape = *s.CursorShape
		} else {
			errs = append(errs, fmt.Errorf("cursor_shape %d: must be between 0 and 6", *s.CursorShape))
		}
	}

	if s.Marker != "" {
		m, err := NormalizeMarker(s.Marker)
		if err != nil {
			errs = append(errs, err)
		} else {
			r.Marker = m
		}
	}

	quit, err := key.Parse(orDefault(s.Keys.Quit, DefaultQuitKey))
	if err != nil {
		errs = append(errs, fmt.Errorf("keys.quit: %w", err))
	}
	refresh, err := key.Parse(orDefault(s.Keys.Refresh, DefaultRefreshKey))
	if err != nil {
		errs = append(errs, fmt.Errorf("keys.refresh: %w", err))
	}
	r.Quit, r.Refresh = quit, refresh

	if len(errs) == 0 && quit == refresh {
		errs = append(errs, fmt.Errorf("keys.quit and keys.refresh are both %s", quit))
	}

	if len(errs) > 0 {
		return Resolved{}, errors.Join(errs...)
	}
	return r, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
