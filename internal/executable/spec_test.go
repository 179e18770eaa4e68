package executable

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryPathFor(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"/src/fortran/zmapFFTil4_aniso_gen.f", "/src/fortran/exe/zmapFFTil4_aniso_gen.exe"},
		{"/src/fortran/power3s_aniso.f", "/src/fortran/exe/power3s_aniso.exe"},
		{"/src/fortran/two.dots.f90", "/src/fortran/exe/two.dots.exe"},
		{"/src/noext", "/src/exe/noext.exe"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), BinaryPathFor(filepath.FromSlash(tt.source)), tt.source)
	}
}

func TestSpec_BinaryPathFollowsSource(t *testing.T) {
	s := Spec{Kind: Transform, SourcePath: "/a/b.f"}
	assert.Equal(t, BinaryPathFor(s.SourcePath), s.BinaryPath())

	s.SourcePath = "/c/d.f"
	assert.Equal(t, filepath.FromSlash("/c/exe/d.exe"), s.BinaryPath())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Transform")
	assert.NoError(t, err)
	assert.Equal(t, Transform, k)

	k, err = ParseKind("spectrum")
	assert.NoError(t, err)
	assert.Equal(t, Spectrum, k)

	_, err = ParseKind("bispectrum")
	assert.Error(t, err)
}

func TestToolchain_CompileArgs(t *testing.T) {
	tc := DefaultToolchain()

	transform := Spec{Kind: Transform, SourcePath: filepath.FromSlash("/f/fft.f")}
	assert.Equal(t, []string{
		"-fast", "-o", filepath.FromSlash("/f/exe/fft.exe"), filepath.FromSlash("/f/fft.f"),
		"-L/usr/local/fftw3_intel_s/lib/", "-lfftw3f",
	}, tc.CompileArgs(transform))

	spectrum := Spec{Kind: Spectrum, SourcePath: filepath.FromSlash("/f/pk.f")}
	assert.Equal(t, []string{
		"-fast", "-o", filepath.FromSlash("/f/exe/pk.exe"), filepath.FromSlash("/f/pk.f"),
	}, tc.CompileArgs(spectrum))
}
