package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SixColumnRow is a catalog row with position and velocity columns.
const SixColumnRow = "12.5 300.25 1999.0 -120.5 33.0 8.75\n"

// FiveColumnRow is a catalog row without the full velocity triple.
const FiveColumnRow = "12.5 300.25 1999.0 -120.5 33.0\n"

// WriteFile writes content under dir (creating parents) and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteFiles writes every name→content pair under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
}

// Touch sets both access and modification time of path.
func Touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, at, at))
}

// WriteSource writes a fake program source dated one hour in the past, so
// that a binary written now is strictly newer.
func WriteSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := WriteFile(t, dir, name, "      program fake\n      end\n")
	Touch(t, path, time.Now().Add(-time.Hour))
	return path
}
