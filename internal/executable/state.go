package executable

import (
	"fmt"
	"time"

	"github.com/vk/powerspec/internal/fsutil"
	"github.com/vk/powerspec/internal/pipeerr"
)

// BuildState is the file system view of one Spec at a point in time.
type BuildState struct {
	SourceModTime time.Time
	BinaryModTime time.Time
	BinaryExists  bool
}

// Stale reports whether the binary must be rebuilt: it is missing, or it is
// not strictly newer than its source. Equal timestamps count as stale.
func (s BuildState) Stale() bool {
	if !s.BinaryExists {
		return true
	}
	return !s.BinaryModTime.After(s.SourceModTime)
}

// Inspect reads the current BuildState of spec. A missing source is a
// FileNotFound error; no build or run is possible without it.
func Inspect(spec Spec) (BuildState, error) {
	srcMod, ok, err := fsutil.ModTime(spec.SourcePath)
	if err != nil {
		return BuildState{}, fmt.Errorf("stat source for %s: %w", spec.Kind, err)
	}
	if !ok {
		return BuildState{}, pipeerr.NotFound(spec.SourcePath, nil)
	}

	binMod, binOK, err := fsutil.ModTime(spec.BinaryPath())
	if err != nil {
		return BuildState{}, fmt.Errorf("stat binary for %s: %w", spec.Kind, err)
	}
	return BuildState{
		SourceModTime: srcMod,
		BinaryModTime: binMod,
		BinaryExists:  binOK,
	}, nil
}
