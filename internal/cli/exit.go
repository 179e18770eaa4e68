package cli

import (
	"errors"

	"github.com/vk/powerspec/internal/pipeerr"
)

// Process exit codes.
const (
	CodeOK         = 0
	CodeFailure    = 1
	CodeUsage      = 2
	CodeValidation = 3
	CodeBuild      = 4
	CodeRun        = 5
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return CodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	kind := pipeerr.KindOf(err)
	switch {
	case kind == pipeerr.ConfigurationError:
		return CodeUsage
	case kind.IsValidation():
		return CodeValidation
	case kind == pipeerr.BuildFailed:
		return CodeBuild
	case kind == pipeerr.RunFailed:
		return CodeRun
	}
	return CodeFailure
}
