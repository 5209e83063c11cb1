package release

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kidevu123/expense-release/internal/config"
	domain "github.com/kidevu123/expense-release/internal/domain/release"
	"github.com/kidevu123/expense-release/internal/logger"
	"github.com/kidevu123/expense-release/internal/repository/history"
	repo "github.com/kidevu123/expense-release/internal/repository/version"
)

// Git covers the source-control operations a release needs.
// *gitrepo.Repo satisfies it; tests substitute a fake.
type Git interface {
	IsClean(ctx context.Context) (bool, error)
	ShortHead(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	CreateAnnotatedTag(ctx context.Context, tag, message string) error
	DeleteTag(ctx context.Context, tag string) error
	Push(ctx context.Context, remote, branch string) error
	PushTags(ctx context.Context, remote string) error
	LatestVersionTag(ctx context.Context, prefix string) (string, error)
}

// service encapsulates the release business logic and persistence orchestration.
// It is unexported to keep the CLI layer decoupled from the implementation.
type service struct {
	// cfg holds remote, branch, tag prefix and push settings.
	cfg *config.Config
	// store persists the version record.
	store repo.Repository
	// git performs tag and push operations.
	git Git
	// history records the release audit log. May be nil.
	history history.Repository
}

var (
	// ErrDirtyWorktree indicates uncommitted changes block the release.
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")
	// ErrTagConflict indicates the release tag already exists.
	ErrTagConflict = errors.New("tag already exists")
	// ErrAlreadyInitialized indicates a version record is already present.
	ErrAlreadyInitialized = errors.New("version record already exists")
)

// newService creates a service backed by the provided collaborators.
func newService(cfg *config.Config, store repo.Repository, git Git, hist history.Repository) *service {
	return &service{
		cfg:     cfg,
		store:   store,
		git:     git,
		history: hist,
	}
}

// Show returns the current record without mutating persisted state.
// A missing record yields the initial 0.1.0/build 0 snapshot.
func (s *service) Show(ctx context.Context) (*domain.Record, error) {
	record, err := s.store.Load(ctx)

	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, repo.ErrNotFound):
		return domain.NewRecord(), nil
	default:
		return nil, fmt.Errorf("load version record: %w", err)
	}
}

// bumpParams carries per-invocation bump settings.
type bumpParams struct {
	// kind selects the version component to increment.
	kind domain.Kind
	// message is the tag annotation; empty means the default release message.
	message string
	// allowDirty permits releasing from a worktree with uncommitted changes.
	allowDirty bool
	// skipPush suppresses pushing even when the settings enable it.
	skipPush bool
}

// Bump performs one release: tag first, persist on tag success, push last.
// Any failure rolls the record file back byte for byte.
func (s *service) Bump(ctx context.Context, params *bumpParams) (*domain.Record, error) {
	// Capture pre-release bytes for rollback before anything else happens.
	previousRaw, err := s.store.Raw(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot version record: %w", err)
	}

	current, err := s.Show(ctx)
	if err != nil {
		return nil, err
	}

	next, err := current.Next(params.kind)
	if err != nil {
		return nil, err
	}

	if !params.allowDirty {
		clean, cleanErr := s.git.IsClean(ctx)
		if cleanErr != nil {
			return nil, cleanErr
		}

		if !clean {
			return nil, ErrDirtyWorktree
		}
	}

	tag := next.TagName(s.cfg.TagPrefix)

	exists, err := s.git.TagExists(ctx, tag)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, fmt.Errorf("%s: %w", tag, ErrTagConflict)
	}

	// Resolve release metadata before tagging; tagging does not move HEAD.
	commit, err := s.git.ShortHead(ctx)
	if err != nil {
		return nil, err
	}

	branch, err := s.git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	message := params.message
	if message == "" {
		message = fmt.Sprintf("Release version %s", next)
	}

	if err = s.git.CreateAnnotatedTag(ctx, tag, message); err != nil {
		return nil, err
	}

	next.Commit = commit
	next.Branch = branch
	next.ReleasedAt = time.Now().UTC()

	// Tag exists now; from here on every failure must undo it.
	if err = s.store.Save(ctx, next); err != nil {
		s.rollback(ctx, tag, previousRaw)

		return nil, fmt.Errorf("persist version record: %w", err)
	}

	if s.cfg.Push && !params.skipPush {
		if err = s.push(ctx); err != nil {
			s.rollback(ctx, tag, previousRaw)

			return nil, err
		}
	}

	// The release is final; record it in the audit log.
	s.appendHistory(ctx, next, params.kind, tag, message)

	logger.InfoKV(ctx, "Release created",
		"version", next.String(), "build", next.Build, "tag", tag, "commit", commit)

	return next, nil
}

// Set realigns the semantic version to an explicit value without tagging.
// The build counter is kept so it stays monotonic.
func (s *service) Set(ctx context.Context, versionString string) (*domain.Record, error) {
	record, err := s.Show(ctx)
	if err != nil {
		return nil, err
	}

	if err = record.SetVersion(versionString); err != nil {
		return nil, err
	}

	if err = s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist version record: %w", err)
	}

	logger.InfoKV(ctx, "Version record realigned", "version", record.String())

	return record, nil
}

// Init creates the initial record, seeding the version from the latest
// release tag when the repository already has one.
func (s *service) Init(ctx context.Context) (*domain.Record, error) {
	raw, err := s.store.Raw(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect version record: %w", err)
	}

	if raw != nil {
		return nil, ErrAlreadyInitialized
	}

	record := domain.NewRecord()

	latest, err := s.git.LatestVersionTag(ctx, s.cfg.TagPrefix)
	if err != nil {
		return nil, err
	}

	if latest != "" {
		if err = record.SetVersion(latest[len(s.cfg.TagPrefix):]); err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Seeded version from existing tag", "tag", latest)
	}

	if err = s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist version record: %w", err)
	}

	return record, nil
}

// push sends the configured branch and all tags to the remote.
func (s *service) push(ctx context.Context) error {
	if err := s.git.Push(ctx, s.cfg.Remote, s.cfg.Branch); err != nil {
		return err
	}

	return s.git.PushTags(ctx, s.cfg.Remote)
}

// rollback deletes the release tag and restores the previous record bytes.
// Rollback failures are logged but not returned: the original error matters more.
func (s *service) rollback(ctx context.Context, tag string, previousRaw []byte) {
	if err := s.git.DeleteTag(ctx, tag); err != nil {
		logger.Errorf(ctx, "Rollback: failed to delete tag %s: %v", tag, err)
	}

	if err := s.store.Restore(ctx, previousRaw); err != nil {
		logger.Errorf(ctx, "Rollback: failed to restore version record: %v", err)
	}
}

// appendHistory records the release in the audit log. Best effort only.
func (s *service) appendHistory(
	ctx context.Context,
	record *domain.Record,
	kind domain.Kind,
	tag, message string,
) {
	if s.history == nil {
		return
	}

	entry := &history.Entry{
		Version:    record.String(),
		Build:      record.Build,
		Kind:       kind,
		Commit:     record.Commit,
		Tag:        tag,
		Message:    message,
		ReleasedAt: record.ReleasedAt,
	}

	if err := s.history.Append(ctx, entry); err != nil {
		logger.Warnf(ctx, "Failed to record release in history: %v", err)
	}
}
