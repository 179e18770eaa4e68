package executable

// Toolchain is the compiler invocation shared by both kinds. Only the
// trailing link flags differ per kind.
type Toolchain struct {
	Compiler string
	Flags    []string

	TransformLinkFlags []string
	SpectrumLinkFlags  []string
}

// DefaultToolchain compiles with ifort and links the transform against the
// single precision FFTW3 library.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Compiler:           "ifort",
		Flags:              []string{"-fast"},
		TransformLinkFlags: []string{"-L/usr/local/fftw3_intel_s/lib/", "-lfftw3f"},
	}
}

// LinkFlags returns the extra link flags of kind.
func (t Toolchain) LinkFlags(kind Kind) []string {
	switch kind {
	case Transform:
		return t.TransformLinkFlags
	case Spectrum:
		return t.SpectrumLinkFlags
	}
	return nil
}

// CompileArgs is the argument list passed to the compiler for spec:
// flags, -o binary, source, link flags.
func (t Toolchain) CompileArgs(spec Spec) []string {
	extra := t.LinkFlags(spec.Kind)
	args := make([]string, 0, len(t.Flags)+3+len(extra))
	args = append(args, t.Flags...)
	args = append(args, "-o", spec.BinaryPath(), spec.SourcePath)
	args = append(args, extra...)
	return args
}
