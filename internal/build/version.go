// Package build provides version and build information for convlog.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info is the build metadata reported by `convlog version`.
type Info struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit"`
	BuildDate string `yaml:"build_date"`
	GoVersion string `yaml:"go_version"`
	Platform  string `yaml:"platform"`
}

// Current returns the metadata of the running binary.
func Current() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short renders the one-line form: "convlog 1.2.0 (abc1234, 2024-05-01)".
func (i Info) Short() string {
	return fmt.Sprintf("convlog %s (%s, %s)", i.Version, i.Commit, i.BuildDate)
}
