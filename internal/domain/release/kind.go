package release

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects which version component a release increments.
type Kind string

// Enumerated bump kinds.
const (
	KindPatch Kind = "patch"
	KindMinor Kind = "minor"
	KindMajor Kind = "major"
)

// ErrInvalidKind is returned when a bump kind outside the enumeration is supplied.
var ErrInvalidKind = errors.New("invalid bump kind")

// ParseKind converts user input into a Kind.
// Anything but patch/minor/major fails with ErrInvalidKind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPatch:
		return KindPatch, nil
	case KindMinor:
		return KindMinor, nil
	case KindMajor:
		return KindMajor, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidKind)
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
