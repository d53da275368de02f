package httpchain

import (
	"fmt"
	"runtime"
)

var (
	// version is set via ldflags during build by GoReleaser.
	// For development builds, this will show "dev".
	version = "dev"

	// commit is the git commit short hash, set via ldflags during build.
	commit = "unknown"

	// buildTime is the RFC3339 build timestamp, set via ldflags during build.
	buildTime = "unknown"
)

// Version returns the compiled version or "dev" if run from source.
func Version() string {
	return version
}

// Commit returns the compiled git commit short hash or "unknown" if run
// from source.
func Commit() string {
	return commit
}

// BuildTime returns the compiled build timestamp (RFC3339) or "unknown" if
// run from source.
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version used to run the current process.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns an "httpchain/<version>" User-Agent string. The runner's
// HTTPTransport does not set it; requests carry the User-Agent from the
// scenario's headers, or net/http's default.
func UserAgent() string {
	return fmt.Sprintf("httpchain/%s", version)
}

// BuildInfo returns a multi-line, human-readable summary of every build
// detail.
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s",
		version, commit, buildTime, GoVersion())
}
