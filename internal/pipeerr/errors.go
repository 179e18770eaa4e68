// Package pipeerr defines the failure taxonomy shared by every pipeline
// component. All failures are fatal to the run that produced them.
package pipeerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	FileNotFound Kind = iota + 1
	UnsupportedFormat
	InsufficientData
	InvalidParameters
	ConfigurationError
	BuildFailed
	RunFailed
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case UnsupportedFormat:
		return "UnsupportedFormat"
	case InsufficientData:
		return "InsufficientData"
	case InvalidParameters:
		return "InvalidParameters"
	case ConfigurationError:
		return "ConfigurationError"
	case BuildFailed:
		return "BuildFailed"
	case RunFailed:
		return "RunFailed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsValidation reports whether the kind is raised before any process is spawned.
func (k Kind) IsValidation() bool {
	switch k {
	case FileNotFound, UnsupportedFormat, InsufficientData, InvalidParameters:
		return true
	}
	return false
}

// Error is the concrete error carried through the pipeline.
type Error struct {
	Kind Kind
	// Executable is the executable kind ("transform", "spectrum") for build
	// and run failures.
	Executable string
	// ExitCode is the child's exit status; -1 when the process never started.
	ExitCode int
	Path     string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Executable != "" {
		fmt.Fprintf(&b, " [%s]", e.Executable)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Kind == BuildFailed || e.Kind == RunFailed {
		fmt.Fprintf(&b, " exit_code=%d", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, which makes the package sentinels
// usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrFileNotFound       = &Error{Kind: FileNotFound}
	ErrUnsupportedFormat  = &Error{Kind: UnsupportedFormat}
	ErrInsufficientData   = &Error{Kind: InsufficientData}
	ErrInvalidParameters  = &Error{Kind: InvalidParameters}
	ErrConfigurationError = &Error{Kind: ConfigurationError}
	ErrBuildFailed        = &Error{Kind: BuildFailed}
	ErrRunFailed          = &Error{Kind: RunFailed}
)

// KindOf returns the taxonomy kind of err, or 0 when err is not a pipeline error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func NotFound(path string, err error) *Error {
	return &Error{Kind: FileNotFound, Path: path, Msg: "file does not exist", Err: err}
}

func Unsupported(path, format string, args ...any) *Error {
	return &Error{Kind: UnsupportedFormat, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func Insufficient(path, format string, args ...any) *Error {
	return &Error{Kind: InsufficientData, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func InvalidParams(format string, args ...any) *Error {
	return &Error{Kind: InvalidParameters, Msg: fmt.Sprintf(format, args...)}
}

func Configuration(format string, args ...any) *Error {
	return &Error{Kind: ConfigurationError, Msg: fmt.Sprintf(format, args...)}
}

func Build(executable string, exitCode int, err error) *Error {
	return &Error{Kind: BuildFailed, Executable: executable, ExitCode: exitCode, Msg: "compile failed", Err: err}
}

func Run(executable string, exitCode int, err error) *Error {
	return &Error{Kind: RunFailed, Executable: executable, ExitCode: exitCode, Msg: "executable failed", Err: err}
}
