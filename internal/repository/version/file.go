package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kidevu123/expense-release/internal/config"
	domain "github.com/kidevu123/expense-release/internal/domain/release"
)

// Repository defines persistence operations for the version record.
// Raw and Restore expose the exact on-disk bytes so a failed release can
// roll the record back without changing a byte.
type Repository interface {
	Load(ctx context.Context) (*domain.Record, error)
	Save(ctx context.Context, record *domain.Record) error
	Raw(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, raw []byte) error
}

// FileRepository persists the version record to a JSON file on disk.
// Writes go to a temp file in the same directory followed by a rename,
// so readers (the tracker's UI badge among them) never observe a partial
// document.
type FileRepository struct {
	// path is the filesystem location of the JSON version record.
	path string
	// mu protects concurrent access to the record file.
	mu sync.Mutex
}

// ErrNotFound is returned when the version record file does not exist yet.
var ErrNotFound = errors.New("version record not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the cleaned location of the record file.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the record from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read version record: %w", err)
	}

	var record domain.Record
	if err = json.Unmarshal(contents, &record); err != nil {
		return nil, fmt.Errorf("decode version record: %w", err)
	}

	return &record, nil
}

// Save writes the record to disk atomically.
func (r *FileRepository) Save(_ context.Context, record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode version record: %w", err)
	}

	return r.writeAtomic(append(data, '\n'))
}

// Restore puts previously captured raw bytes back, byte for byte.
// The release service uses it to roll back a record after a failed push.
func (r *FileRepository) Restore(_ context.Context, raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if raw == nil {
		// There was no record before the release; remove what we wrote.
		if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove version record: %w", err)
		}

		return nil
	}

	return r.writeAtomic(raw)
}

// Raw returns the exact bytes currently on disk, or nil when absent.
func (r *FileRepository) Raw(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read version record: %w", err)
	}

	return contents, nil
}

// writeAtomic writes data through a temp file and rename.
// Callers must hold r.mu.
func (r *FileRepository) writeAtomic(data []byte) error {
	dir := filepath.Dir(r.path)

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}

	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("write temp record: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("close temp record: %w", err)
	}

	if err = os.Chmod(tmpName, config.DefaultFilePermissions); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("chmod temp record: %w", err)
	}

	if err = os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replace version record: %w", err)
	}

	return nil
}
