package gitrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Repo exposes the handful of git operations the release tool needs.
type Repo struct {
	// dir is the working tree of the repository being released.
	dir string
	// runner executes git subcommands.
	runner Runner
}

// Option configures Repo construction.
type Option func(*Repo)

// WithRunner replaces the default exec-based runner (used by tests).
func WithRunner(r Runner) Option {
	return func(repo *Repo) {
		if r != nil {
			repo.runner = r
		}
	}
}

// defaultGitTimeout bounds git calls when no timeout is configured.
const defaultGitTimeout = 10 * time.Second

// New creates a Repo for the working tree at dir.
func New(dir string, timeout time.Duration, opts ...Option) *Repo {
	if timeout <= 0 {
		timeout = defaultGitTimeout
	}

	repo := &Repo{
		dir:    dir,
		runner: NewExecRunner(timeout),
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

// IsClean reports whether the working tree has no uncommitted changes to
// tracked files. Untracked files are ignored: the release artifacts
// (settings, version record) live in the worktree and must not block a tag
// on HEAD.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	out, err := r.runner.Run(ctx, r.dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("check worktree status: %w", err)
	}

	return out == "", nil
}

// ShortHead returns the short hash of HEAD.
func (r *Repo) ShortHead(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, r.dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	return out, nil
}

// CurrentBranch returns the checked-out branch name, empty on detached HEAD.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, r.dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("resolve branch: %w", err)
	}

	return out, nil
}

// TagExists reports whether the given tag already exists.
func (r *Repo) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := r.runner.Run(ctx, r.dir, "tag", "--list", tag)
	if err != nil {
		return false, fmt.Errorf("list tag %s: %w", tag, err)
	}

	return out != "", nil
}

// CreateAnnotatedTag tags HEAD with an annotated tag.
func (r *Repo) CreateAnnotatedTag(ctx context.Context, tag, message string) error {
	if _, err := r.runner.Run(ctx, r.dir, "tag", "-a", tag, "-m", message); err != nil {
		return fmt.Errorf("create tag %s: %w", tag, err)
	}

	return nil
}

// DeleteTag removes a local tag. Used to roll back a failed release.
func (r *Repo) DeleteTag(ctx context.Context, tag string) error {
	if _, err := r.runner.Run(ctx, r.dir, "tag", "-d", tag); err != nil {
		return fmt.Errorf("delete tag %s: %w", tag, err)
	}

	return nil
}

// Push pushes a branch to the remote.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	if _, err := r.runner.Run(ctx, r.dir, "push", remote, branch); err != nil {
		return fmt.Errorf("push %s to %s: %w", branch, remote, err)
	}

	return nil
}

// PushTags pushes all tags to the remote.
func (r *Repo) PushTags(ctx context.Context, remote string) error {
	if _, err := r.runner.Run(ctx, r.dir, "push", remote, "--tags"); err != nil {
		return fmt.Errorf("push tags to %s: %w", remote, err)
	}

	return nil
}

// LatestVersionTag returns the highest semantic version among tags starting
// with prefix, or empty when the repository has no version tags yet.
func (r *Repo) LatestVersionTag(ctx context.Context, prefix string) (string, error) {
	out, err := r.runner.Run(ctx, r.dir, "tag", "--list", prefix+"*")
	if err != nil {
		return "", fmt.Errorf("list version tags: %w", err)
	}

	if out == "" {
		return "", nil
	}

	var (
		bestTag     string
		bestVersion *semver.Version
	)

	for _, tag := range strings.Split(out, "\n") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}

		parsed, parseErr := semver.NewVersion(strings.TrimPrefix(tag, prefix))
		if parseErr != nil {
			// Not every tag under the prefix is a release tag.
			continue
		}

		if bestVersion == nil || parsed.GreaterThan(bestVersion) {
			bestVersion = parsed
			bestTag = tag
		}
	}

	return bestTag, nil
}
