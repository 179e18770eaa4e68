package pipeerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("stage failed: %w", Run("transform", 3, nil))

	assert.True(t, errors.Is(err, ErrRunFailed))
	assert.False(t, errors.Is(err, ErrBuildFailed))
	assert.Equal(t, RunFailed, KindOf(err))
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestError_MessageCarriesExecutableAndExitCode(t *testing.T) {
	err := Build("spectrum", 2, errors.New("exit status 2"))
	assert.Equal(t, "BuildFailed [spectrum]: compile failed exit_code=2: exit status 2", err.Error())
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("stat failed")
	err := NotFound("/tmp/cat.dat", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "/tmp/cat.dat")
}

func TestKind_IsValidation(t *testing.T) {
	for _, k := range []Kind{FileNotFound, UnsupportedFormat, InsufficientData, InvalidParameters} {
		assert.True(t, k.IsValidation(), k.String())
	}
	for _, k := range []Kind{ConfigurationError, BuildFailed, RunFailed} {
		assert.False(t, k.IsValidation(), k.String())
	}
}
