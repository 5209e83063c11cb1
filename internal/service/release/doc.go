// Package release orchestrates the release workflow: load the version
// record, compute the bump, tag the repository, persist the new snapshot,
// record it in the history log and push to the remote.
//
// The ordering is tag-first: the record is only written after the tag
// exists, and any later failure (persist, push) deletes the tag and
// restores the previous record bytes, so the persisted version can never
// name a release that was not tagged. A marker lock file guards against
// accidental concurrent invocations.
package release
