package executable

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner runs one external process to completion. The exit code is 0 on
// success; a process that could not be started reports 127.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner runs processes on the local host, streaming their output to
// Stdout and Stderr when set. The child is never killed early: the context
// is not bound to the process lifetime.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		cmd.Stderr = r.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}

	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return exitCode, err
}
