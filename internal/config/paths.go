package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigNames are the project-level config file names, in lookup order.
var ProjectConfigNames = []string{".convlog.yml", ".convlog.yaml", ".convlog.json"}

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/convlog/config.yml
// - macOS: ~/Library/Application Support/convlog/config.yml
// - Windows: %APPDATA%\convlog\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "convlog", "config.yml"), nil
}

// FindProjectConfig returns the first project config file present in dir,
// or "" when there is none. An empty dir means the current directory.
func FindProjectConfig(dir string) string {
	for _, name := range ProjectConfigNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// PathStatus describes one config file location and whether it exists.
type PathStatus struct {
	Source ConfigSource
	Path   string
	Exists bool
}

// ResolvePaths lists every config file location consulted by LoadWithOptions,
// in load order.
func ResolvePaths(opts LoadOptions) []PathStatus {
	var paths []PathStatus

	if !opts.SkipUser {
		if userPath, err := UserConfigPath(); err == nil {
			paths = append(paths, PathStatus{Source: SourceUser, Path: userPath, Exists: fileExists(userPath)})
		}
	}

	for _, name := range ProjectConfigNames {
		path := filepath.Join(opts.ProjectDir, name)
		paths = append(paths, PathStatus{Source: SourceProject, Path: path, Exists: fileExists(path)})
	}

	if opts.ConfigPath != "" {
		paths = append(paths, PathStatus{Source: SourceExplicit, Path: opts.ConfigPath, Exists: fileExists(opts.ConfigPath)})
	}

	return paths
}
