// Package release contains core domain types for release management.
//
// It defines Kind (which version component a release increments) and Record
// (the persisted release snapshot) with pure bump arithmetic in Next, so the
// version math is testable without touching git or the filesystem.
package release
