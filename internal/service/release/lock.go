package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/kidevu123/expense-release/internal/config"
)

const (
	// MarkerFilename marks that a release is running right now to avoid parallel invocations.
	MarkerFilename = ".expense-release.lock"

	// markerLifetime is the period after which a stale release marker is ignored,
	// provided no other release process is alive.
	markerLifetime = 30 * time.Second

	// toolExecutableBase is the binary name checked when recovering a stale marker.
	toolExecutableBase = "expense-release"
)

// ErrReleaseInProgress indicates another release invocation holds the marker.
var ErrReleaseInProgress = errors.New("another release is in progress")

// acquireMarker creates the release marker next to the version file and
// returns a function removing it. A fresh marker from another invocation is
// honored; a stale one is ignored when no other release process is alive.
func acquireMarker(versionFile string) (func(), error) {
	markerPath := filepath.Join(filepath.Dir(filepath.Clean(versionFile)), MarkerFilename)

	fileInfo, err := os.Stat(markerPath)

	switch {
	case err == nil:
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return nil, fmt.Errorf("marker %s is fresh: %w", markerPath, ErrReleaseInProgress)
		}

		// The marker is old. Treat it as abandoned unless the process still runs.
		running, psErr := isReleaseProcessAlive()
		if psErr != nil || running {
			return nil, fmt.Errorf("marker %s is held: %w", markerPath, ErrReleaseInProgress)
		}

		if err = os.Remove(markerPath); err != nil {
			return nil, fmt.Errorf("remove stale marker: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// No marker, proceed.
	default:
		return nil, fmt.Errorf("stat marker: %w", err)
	}

	contents := []byte(strconv.Itoa(os.Getpid()) + "\n")
	if err = os.WriteFile(markerPath, contents, config.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("write marker: %w", err)
	}

	return func() {
		_ = os.Remove(markerPath)
	}, nil
}

// isReleaseProcessAlive reports whether another expense-release process exists.
func isReleaseProcessAlive() (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == toolExecutable() {
			return true, nil
		}
	}

	return false, nil
}

// toolExecutable returns the platform-specific binary name.
func toolExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return toolExecutableBase + ".exe"
	}

	return toolExecutableBase
}
