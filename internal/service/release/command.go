package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"

	"github.com/kidevu123/expense-release/internal/config"
	domain "github.com/kidevu123/expense-release/internal/domain/release"
	"github.com/kidevu123/expense-release/internal/gitrepo"
	"github.com/kidevu123/expense-release/internal/logger"
	"github.com/kidevu123/expense-release/internal/render"
	"github.com/kidevu123/expense-release/internal/repository/history"
	repo "github.com/kidevu123/expense-release/internal/repository/version"
)

// Options controls the release subcommands and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// RepoPath provides an optional repository path override.
	RepoPath string
	// VersionFile provides an optional version record path override.
	VersionFile string
	// Message is the tag annotation supplied with -m/--message.
	Message string
	// AllowDirty permits releasing from a worktree with uncommitted changes.
	AllowDirty bool
	// SkipPush suppresses pushing to the remote for this invocation.
	SkipPush bool
}

// RunShow prints the current version record without mutating it.
func RunShow(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-show")

	env, err := newEnvironment(ctx, opts, false)
	if err != nil {
		return err
	}
	defer env.close()

	record, err := env.service.Show(ctx)
	if err != nil {
		return err
	}

	render.Record(os.Stdout, record)

	return nil
}

// RunBump performs a release of the requested kind.
func RunBump(ctx context.Context, kindArg string, opts *Options) error {
	ctx = logger.WithName(ctx, "release-bump")

	kind, err := domain.ParseKind(kindArg)
	if err != nil {
		return err
	}

	env, err := newEnvironment(ctx, opts, true)
	if err != nil {
		return err
	}
	defer env.close()

	releaseMarker, err := acquireMarker(env.versionFile)
	if err != nil {
		return err
	}
	defer releaseMarker()

	params := &bumpParams{
		kind:       kind,
		message:    opts.Message,
		allowDirty: opts.AllowDirty,
		skipPush:   opts.SkipPush,
	}

	stop := startSpinner(fmt.Sprintf(" Cutting %s release...", kind))

	record, err := env.service.Bump(ctx, params)

	stop()

	if err != nil {
		return err
	}

	render.Successf(os.Stdout, "Release %s created successfully (tag %s).",
		record.String(), record.TagName(env.cfg.TagPrefix))
	render.Record(os.Stdout, record)

	return nil
}

// RunSet realigns the record to an explicit version without tagging.
func RunSet(ctx context.Context, versionArg string, opts *Options) error {
	ctx = logger.WithName(ctx, "release-set")

	env, err := newEnvironment(ctx, opts, false)
	if err != nil {
		return err
	}
	defer env.close()

	releaseMarker, err := acquireMarker(env.versionFile)
	if err != nil {
		return err
	}
	defer releaseMarker()

	record, err := env.service.Set(ctx, versionArg)
	if err != nil {
		return err
	}

	render.Successf(os.Stdout, "Version record set to %s.", record.String())

	return nil
}

// RunInit creates the initial version record, seeding from existing tags.
func RunInit(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-init")

	env, err := newEnvironment(ctx, opts, false)
	if err != nil {
		return err
	}
	defer env.close()

	releaseMarker, err := acquireMarker(env.versionFile)
	if err != nil {
		return err
	}
	defer releaseMarker()

	record, err := env.service.Init(ctx)
	if err != nil {
		return err
	}

	render.Successf(os.Stdout, "Initialized version record at %s (version %s).",
		env.versionFile, record.String())

	return nil
}

// RunHistory lists recent releases from the audit log.
func RunHistory(ctx context.Context, limit int, opts *Options) error {
	ctx = logger.WithName(ctx, "release-history")

	env, err := newEnvironment(ctx, opts, true)
	if err != nil {
		return err
	}
	defer env.close()

	if env.history == nil {
		return fmt.Errorf("open history database: %w", env.historyErr)
	}

	entries, err := env.history.List(ctx, limit)
	if err != nil {
		return err
	}

	render.History(os.Stdout, entries)

	return nil
}

// environment bundles the wired collaborators for one invocation.
type environment struct {
	cfg         *config.Config
	versionFile string
	service     *service
	history     history.Repository
	historyErr  error
}

// newEnvironment loads settings, applies overrides and wires the service.
// The history database is only opened when the command needs it; open
// failures are tolerated for bumps (the log is advisory).
func newEnvironment(ctx context.Context, opts *Options, withHistory bool) (*environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.RepoPath != "" {
		cfg.RepoPath = opts.RepoPath
	}

	if opts.VersionFile != "" {
		cfg.VersionFile = opts.VersionFile
	}

	versionFile := cfg.VersionFile
	if !filepath.IsAbs(versionFile) {
		versionFile = filepath.Join(cfg.RepoPath, versionFile)
	}

	env := &environment{
		cfg:         cfg,
		versionFile: versionFile,
	}

	if withHistory {
		env.history, env.historyErr = history.NewService(cfg.HistoryDB)
		if env.historyErr != nil {
			logger.Warnf(ctx, "Release history unavailable: %v", env.historyErr)
		}
	}

	store := repo.NewFileRepository(versionFile)
	git := gitrepo.New(cfg.RepoPath, cfg.Timeout)
	env.service = newService(cfg, store, git, env.history)

	return env, nil
}

// close releases the environment's resources.
func (e *environment) close() {
	if e.history != nil {
		_ = e.history.Close()
	}
}

// startSpinner shows a progress indicator on stderr and returns its stop function.
func startSpinner(suffix string) func() {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Color("yellow") //nolint:errcheck
	s.Suffix = suffix
	s.Start()

	return s.Stop
}
