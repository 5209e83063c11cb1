package release

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Record is the persisted snapshot of current release metadata.
type Record struct {
	// Major, Minor and Patch form the semantic version of the tracker.
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
	// Build increases by one on every release regardless of bump kind.
	Build int `json:"build"`
	// Commit is the short hash of the repository state at release time.
	Commit string `json:"commit,omitempty"`
	// Branch is the branch the release was cut from.
	Branch string `json:"branch,omitempty"`
	// ReleasedAt is the timestamp of the last release. Zero until the first one.
	ReleasedAt time.Time `json:"released_at,omitzero"`
}

// NewRecord returns the initial record for a repository that has never been released.
func NewRecord() *Record {
	return &Record{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: 0,
	}
}

// Next computes the record produced by bumping with the given kind.
// The receiver is not modified. Build always increases by one.
func (r *Record) Next(kind Kind) (*Record, error) {
	next := r.Clone()

	switch kind {
	case KindMajor:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case KindMinor:
		next.Minor++
		next.Patch = 0
	case KindPatch:
		next.Patch++
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrInvalidKind)
	}

	next.Build++

	// Release metadata is stamped by the release service after tagging.
	next.Commit = ""
	next.Branch = ""
	next.ReleasedAt = time.Time{}

	return next, nil
}

// Clone returns a copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	cloned := *r

	return &cloned
}

// String renders the semantic version, e.g. "1.2.3".
func (r *Record) String() string {
	return fmt.Sprintf("%d.%d.%d", r.Major, r.Minor, r.Patch)
}

// DisplayVersion renders the version including the build counter,
// matching what the tracker's UI badge shows, e.g. "1.2.3.47".
func (r *Record) DisplayVersion() string {
	return fmt.Sprintf("%d.%d.%d.%d", r.Major, r.Minor, r.Patch, r.Build)
}

// TagName renders the git tag for this record, e.g. "v1.2.3".
func (r *Record) TagName(prefix string) string {
	return prefix + r.String()
}

// SetVersion overwrites the semantic version components from a version string
// such as "1.4.0" or "v1.4.0". The build counter and metadata are kept.
func (r *Record) SetVersion(s string) error {
	parsed, err := semver.NewVersion(s)
	if err != nil {
		return fmt.Errorf("parse version %q: %w", s, err)
	}

	r.Major = int(parsed.Major())
	r.Minor = int(parsed.Minor())
	r.Patch = int(parsed.Patch())

	return nil
}
