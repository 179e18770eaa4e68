package executable

import (
	"path/filepath"
	"strings"
)

// BinaryDir is the subdirectory, next to the sources, that holds compiled binaries.
const BinaryDir = "exe"

// BinaryExt is the extension of compiled binaries.
const BinaryExt = ".exe"

// Spec identifies one buildable program.
type Spec struct {
	Kind       Kind
	SourcePath string
}

// BinaryPath derives the compiled binary location from the source path:
// <source dir>/exe/<source name without extension>.exe.
func (s Spec) BinaryPath() string {
	return BinaryPathFor(s.SourcePath)
}

// BinaryPathFor is the pure mapping behind Spec.BinaryPath.
func BinaryPathFor(sourcePath string) string {
	dir, file := filepath.Split(sourcePath)
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dir, BinaryDir, stem+BinaryExt)
}
