// Package version exposes build metadata for the release tool binary.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. This is
// distinct from the tracker's managed version record in internal/domain/release.
package version
