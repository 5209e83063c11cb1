package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kidevu123/expense-release/internal/config"
	domain "github.com/kidevu123/expense-release/internal/domain/release"
	"github.com/kidevu123/expense-release/internal/repository/history"
	repo "github.com/kidevu123/expense-release/internal/repository/version"
)

// fakeGit is an in-memory Git implementation for service tests.
type fakeGit struct {
	clean     bool
	head      string
	branch    string
	tags      map[string]bool
	latestTag string

	tagErr      error
	pushErr     error
	pushTagsErr error

	created []string
	deleted []string
	pushes  []string
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		clean:  true,
		head:   "abc1234",
		branch: "main",
		tags:   map[string]bool{},
	}
}

func (g *fakeGit) IsClean(context.Context) (bool, error) { return g.clean, nil }

func (g *fakeGit) ShortHead(context.Context) (string, error) { return g.head, nil }

func (g *fakeGit) CurrentBranch(context.Context) (string, error) { return g.branch, nil }

func (g *fakeGit) TagExists(_ context.Context, tag string) (bool, error) {
	return g.tags[tag], nil
}

func (g *fakeGit) CreateAnnotatedTag(_ context.Context, tag, _ string) error {
	if g.tagErr != nil {
		return g.tagErr
	}

	g.tags[tag] = true
	g.created = append(g.created, tag)

	return nil
}

func (g *fakeGit) DeleteTag(_ context.Context, tag string) error {
	delete(g.tags, tag)
	g.deleted = append(g.deleted, tag)

	return nil
}

func (g *fakeGit) Push(_ context.Context, remote, branch string) error {
	if g.pushErr != nil {
		return g.pushErr
	}

	g.pushes = append(g.pushes, remote+"/"+branch)

	return nil
}

func (g *fakeGit) PushTags(_ context.Context, remote string) error {
	if g.pushTagsErr != nil {
		return g.pushTagsErr
	}

	g.pushes = append(g.pushes, remote+"/--tags")

	return nil
}

func (g *fakeGit) LatestVersionTag(context.Context, string) (string, error) {
	return g.latestTag, nil
}

// memoryHistory collects audit entries in memory.
type memoryHistory struct {
	entries []*history.Entry
	err     error
}

func (m *memoryHistory) Append(_ context.Context, entry *history.Entry) error {
	if m.err != nil {
		return m.err
	}

	m.entries = append(m.entries, entry)

	return nil
}

func (m *memoryHistory) List(context.Context, int) ([]*history.Entry, error) {
	return m.entries, nil
}

func (m *memoryHistory) Close() error { return nil }

// failingStore wraps a repository and fails Save.
type failingStore struct {
	repo.Repository
}

func (f *failingStore) Save(context.Context, *domain.Record) error {
	return errors.New("disk full")
}

// testFixture wires a service over a temp version file and fakes.
type testFixture struct {
	svc     *service
	store   *repo.FileRepository
	git     *fakeGit
	history *memoryHistory
	file    string
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	file := filepath.Join(t.TempDir(), "version.json")
	store := repo.NewFileRepository(file)
	git := newFakeGit()
	hist := &memoryHistory{}

	cfg := config.Default()

	return &testFixture{
		svc:     newService(cfg, store, git, hist),
		store:   store,
		git:     git,
		history: hist,
		file:    file,
	}
}

// rawBytes reads the version file, nil when absent.
func (f *testFixture) rawBytes(t *testing.T) []byte {
	t.Helper()

	raw, err := f.store.Raw(context.Background())
	require.NoError(t, err)

	return raw
}

// bump runs a bump with defaults for the optional knobs.
func (f *testFixture) bump(t *testing.T, kind domain.Kind) (*domain.Record, error) {
	t.Helper()

	return f.svc.Bump(context.Background(), &bumpParams{kind: kind})
}

// TestShow_DefaultsWhenMissing returns 0.1.0/build 0 and writes nothing.
func TestShow_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	record, err := f.svc.Show(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.1.0", record.String())
	require.Zero(t, record.Build)

	_, err = os.Stat(f.file)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestShow_DoesNotMutate proves repeated reads leave the file byte-for-byte alone.
func TestShow_DoesNotMutate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, &domain.Record{Major: 1, Minor: 2, Patch: 3, Build: 7}))

	before := f.rawBytes(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Show(ctx)
		require.NoError(t, err)
	}

	require.Equal(t, before, f.rawBytes(t))
}

// TestBump_FirstRelease tags, persists and pushes starting from the default record.
func TestBump_FirstRelease(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	record, err := f.bump(t, domain.KindPatch)
	require.NoError(t, err)
	require.Equal(t, "0.1.1", record.String())
	require.Equal(t, 1, record.Build)
	require.Equal(t, "abc1234", record.Commit)
	require.Equal(t, "main", record.Branch)
	require.False(t, record.ReleasedAt.IsZero())

	// Tag created and pushed.
	require.Equal(t, []string{"v0.1.1"}, f.git.created)
	require.Equal(t, []string{"origin/main", "origin/--tags"}, f.git.pushes)

	// Persisted snapshot matches.
	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, record, loaded)

	// Audit log has exactly one row.
	require.Len(t, f.history.entries, 1)
	require.Equal(t, "v0.1.1", f.history.entries[0].Tag)
	require.Equal(t, domain.KindPatch, f.history.entries[0].Kind)
}

// TestBump_BuildMonotonic checks build rises by one per release across kinds.
func TestBump_BuildMonotonic(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for i, kind := range []domain.Kind{domain.KindPatch, domain.KindMinor, domain.KindMajor} {
		record, err := f.bump(t, kind)
		require.NoError(t, err)
		require.Equal(t, i+1, record.Build)
	}
}

// TestBump_InvalidKind fails distinguishably and changes nothing.
func TestBump_InvalidKind(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.bump(t, domain.Kind("hotfix"))
	require.ErrorIs(t, err, domain.ErrInvalidKind)
	require.Nil(t, f.rawBytes(t))
	require.Empty(t, f.git.created)
}

// TestBump_DirtyWorktree refuses unless allowDirty is set.
func TestBump_DirtyWorktree(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.git.clean = false

	_, err := f.bump(t, domain.KindPatch)
	require.ErrorIs(t, err, ErrDirtyWorktree)
	require.Nil(t, f.rawBytes(t))

	record, err := f.svc.Bump(context.Background(), &bumpParams{kind: domain.KindPatch, allowDirty: true})
	require.NoError(t, err)
	require.Equal(t, "0.1.1", record.String())
}

// TestBump_TagConflict reports the conflict and leaves state untouched.
func TestBump_TagConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.git.tags["v0.1.1"] = true

	before := f.rawBytes(t)

	_, err := f.bump(t, domain.KindPatch)
	require.ErrorIs(t, err, ErrTagConflict)
	require.Equal(t, before, f.rawBytes(t))
	require.Empty(t, f.git.created)
}

// TestBump_TagFailureLeavesRecordUntouched is the core atomicity property:
// a failed tag leaves the version file byte-for-byte identical.
func TestBump_TagFailureLeavesRecordUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, &domain.Record{Major: 1, Minor: 2, Patch: 3, Build: 7}))

	before := f.rawBytes(t)
	f.git.tagErr = errors.New("fatal: tag object write failed")

	_, err := f.bump(t, domain.KindMinor)
	require.Error(t, err)
	require.Equal(t, before, f.rawBytes(t))
	require.Empty(t, f.history.entries)
}

// TestBump_PersistFailureDeletesTag removes the tag when the record cannot be written.
func TestBump_PersistFailureDeletesTag(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.svc.store = &failingStore{Repository: f.store}

	_, err := f.bump(t, domain.KindPatch)
	require.Error(t, err)
	require.Equal(t, []string{"v0.1.1"}, f.git.deleted)
	require.False(t, f.git.tags["v0.1.1"])
	require.Empty(t, f.history.entries)
}

// TestBump_PushFailureRollsBack deletes the tag and restores previous bytes.
func TestBump_PushFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, &domain.Record{Major: 1, Minor: 2, Patch: 3, Build: 7}))

	before := f.rawBytes(t)
	f.git.pushErr = errors.New("remote unreachable")

	_, err := f.bump(t, domain.KindPatch)
	require.Error(t, err)
	require.Equal(t, before, f.rawBytes(t))
	require.Equal(t, []string{"v1.2.4"}, f.git.deleted)
	require.Empty(t, f.history.entries)
}

// TestBump_PushFailureOnFreshRepoRemovesRecord restores the "no record" state too.
func TestBump_PushFailureOnFreshRepoRemovesRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.git.pushTagsErr = errors.New("remote unreachable")

	_, err := f.bump(t, domain.KindPatch)
	require.Error(t, err)
	require.Nil(t, f.rawBytes(t))
}

// TestBump_SkipPush honors both the flag and the setting.
func TestBump_SkipPush(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Bump(context.Background(), &bumpParams{kind: domain.KindPatch, skipPush: true})
	require.NoError(t, err)
	require.Empty(t, f.git.pushes)

	f = newFixture(t)
	f.svc.cfg.Push = false

	_, err = f.bump(t, domain.KindMinor)
	require.NoError(t, err)
	require.Empty(t, f.git.pushes)
}

// TestBump_HistoryFailureIsNotFatal keeps the release when the audit write fails.
func TestBump_HistoryFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.history.err = errors.New("database locked")

	record, err := f.bump(t, domain.KindPatch)
	require.NoError(t, err)
	require.Equal(t, "0.1.1", record.String())

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, record, loaded)
}

// TestBump_CustomMessage passes the operator's annotation through to history.
func TestBump_CustomMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Bump(context.Background(), &bumpParams{
		kind:     domain.KindMinor,
		message:  "vendor onboarding support",
		skipPush: true,
	})
	require.NoError(t, err)
	require.Len(t, f.history.entries, 1)
	require.Equal(t, "vendor onboarding support", f.history.entries[0].Message)
}

// TestSet realigns the version, keeps the build counter and does not tag.
func TestSet(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, &domain.Record{Major: 1, Minor: 0, Patch: 0, Build: 12}))

	record, err := f.svc.Set(ctx, "v1.4.0")
	require.NoError(t, err)
	require.Equal(t, "1.4.0", record.String())
	require.Equal(t, 12, record.Build)
	require.Empty(t, f.git.created)

	_, err = f.svc.Set(ctx, "garbage")
	require.Error(t, err)
}

// TestInit seeds from the latest tag and refuses to overwrite an existing record.
func TestInit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.git.latestTag = "v0.10.1"
	ctx := context.Background()

	record, err := f.svc.Init(ctx)
	require.NoError(t, err)
	require.Equal(t, "0.10.1", record.String())
	require.Zero(t, record.Build)

	_, err = f.svc.Init(ctx)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

// TestInit_NoTags starts at the default version.
func TestInit_NoTags(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	record, err := f.svc.Init(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.1.0", record.String())
}
