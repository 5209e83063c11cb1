package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/kidevu123/expense-release/internal/domain/release"
)

// newTestRepository opens a history database in a temp directory.
func newTestRepository(t *testing.T) Repository {
	t.Helper()

	repo, err := NewService(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, repo.Close())
	})

	return repo
}

// TestAppendList_Roundtrip inserts entries and reads them back newest first.
func TestAppendList_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	first := &Entry{
		Version:    "0.1.1",
		Build:      1,
		Kind:       domain.KindPatch,
		Commit:     "abc1234",
		Tag:        "v0.1.1",
		Message:    "fix receipt totals",
		ReleasedAt: base,
	}
	second := &Entry{
		Version:    "0.2.0",
		Build:      2,
		Kind:       domain.KindMinor,
		Commit:     "def5678",
		Tag:        "v0.2.0",
		ReleasedAt: base.Add(time.Hour),
	}

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NotZero(t, first.ID)
	require.NotZero(t, second.ID)

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	require.Equal(t, "0.2.0", entries[0].Version)
	require.Equal(t, domain.KindMinor, entries[0].Kind)
	require.Equal(t, "0.1.1", entries[1].Version)
	require.Equal(t, "fix receipt totals", entries[1].Message)
	require.True(t, entries[0].ReleasedAt.After(entries[1].ReleasedAt))
}

// TestList_Limit returns only the most recent rows.
func TestList_Limit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, &Entry{
			Version:    "0.1.0",
			Build:      i + 1,
			Kind:       domain.KindPatch,
			Commit:     "abc1234",
			Tag:        "v0.1.0",
			ReleasedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 5, entries[0].Build)
	require.Equal(t, 4, entries[1].Build)
}

// TestAppend_NilEntry is rejected.
func TestAppend_NilEntry(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	require.Error(t, repo.Append(context.Background(), nil))
}
