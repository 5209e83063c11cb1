// Package version implements persistence for the release Record.
//
// The FileRepository stores and loads the record as JSON on disk and exposes
// a Repository interface that the release service depends on. Writes are
// atomic (temp file + rename) and Raw/Restore allow the release service to
// roll the file back byte for byte after a failed release.
package version
