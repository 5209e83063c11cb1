// Package gitrepo wraps the git binary for the release workflow.
//
// Repo shells out to git through a Runner interface so the release service
// can be tested with a fake. Only the operations the tool needs are exposed:
// worktree status, HEAD/branch resolution, tag management and pushing.
package gitrepo
