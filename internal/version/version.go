// Package version reports how the comparenet binary was built. Version,
// GitCommit and BuildDate are set with -ldflags "-X ...".
package version

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Build describes the running binary.
type Build struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Current returns the build information of this binary.
func Current() Build {
	return Build{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String is the one-line form printed by `comparenet version`.
func (b Build) String() string {
	return fmt.Sprintf("comparenet %s (commit: %s, built: %s, go: %s, %s/%s)",
		b.Version, b.GitCommit, b.BuildDate, b.GoVersion, b.OS, b.Arch)
}

// LogFields returns the version, commit and build date as log fields.
func (b Build) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("version", b.Version),
		zap.String("git_commit", b.GitCommit),
		zap.String("build_date", b.BuildDate),
	}
}
