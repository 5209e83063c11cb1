package version

import "fmt"

// Build metadata. Release builds override these via -ldflags; local builds
// keep the dev defaults.
var (
	Version   = "0.1.0-dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns just the version string.
func Short() string {
	return Version
}

// Full renders the version together with its commit and build timestamp.
func Full() string {
	return fmt.Sprintf("expense-release %s (commit %s, built %s)", Version, Commit, BuildTime)
}
