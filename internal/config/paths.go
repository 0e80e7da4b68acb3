// ABOUTME: Standard filesystem paths for ked configuration
// ABOUTME: Resolves ~/.ked/ (or $KED_HOME) for global and .ked/ for project-local settings

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".ked"
	projectDirName = ".ked"
	configFileName = "config.yaml"

	// HomeEnv overrides the global config directory.
	HomeEnv = "KED_HOME"
)

// GlobalDir returns the user-global config directory: $KED_HOME when set,
// otherwise ~/.ked/.
func GlobalDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.ked/ in root).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), configFileName)
}
