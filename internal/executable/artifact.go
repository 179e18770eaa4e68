package executable

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/pipeerr"
)

// Artifact is one compiled program bound to the toolchain that builds it and
// the runner that executes it.
type Artifact struct {
	spec      Spec
	toolchain Toolchain
	runner    Runner
}

// NewArtifact binds spec to a toolchain and a process runner.
func NewArtifact(spec Spec, toolchain Toolchain, runner Runner) *Artifact {
	return &Artifact{spec: spec, toolchain: toolchain, runner: runner}
}

// Spec returns the program identity.
func (a *Artifact) Spec() Spec {
	return a.spec
}

// State inspects the current build state.
func (a *Artifact) State() (BuildState, error) {
	return Inspect(a.spec)
}

// CompileCommand returns the compiler name and arguments for this artifact.
func (a *Artifact) CompileCommand() (string, []string) {
	return a.toolchain.Compiler, a.toolchain.CompileArgs(a.spec)
}

// EnsureBuilt compiles the program when its binary is stale and reports
// whether a compile happened. A non-zero compiler exit, or a binary that is
// still stale after the compiler returned, is a BuildFailed error.
func (a *Artifact) EnsureBuilt(ctx context.Context) (bool, error) {
	logger := ctxlog.FromContext(ctx).With("executable", a.spec.Kind.String())

	state, err := a.State()
	if err != nil {
		return false, err
	}
	if !state.Stale() {
		logger.Debug("Binary is up to date, skipping compile.",
			"binary", a.spec.BinaryPath(),
			"binary_mtime", state.BinaryModTime,
			"source_mtime", state.SourceModTime,
		)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(a.spec.BinaryPath()), 0o755); err != nil {
		return false, pipeerr.Build(a.spec.Kind.String(), -1, fmt.Errorf("create binary dir: %w", err))
	}

	name, args := a.CompileCommand()
	logger.Info("🔨 Compiling", "compiler", name, "args", args, "binary_present", state.BinaryExists)

	exitCode, err := a.runner.Run(ctx, name, args...)
	if err != nil || exitCode != 0 {
		if err == nil {
			err = fmt.Errorf("compiler exited with status %d", exitCode)
		}
		logger.Debug("Compile failed.", "exit_code", exitCode, "error", err)
		return false, pipeerr.Build(a.spec.Kind.String(), exitCode, err)
	}

	after, err := a.State()
	if err != nil {
		return false, err
	}
	if after.Stale() {
		err := errors.New("compiler reported success but the binary is missing or not newer than its source")
		logger.Debug("Compile produced no fresh binary.", "binary", a.spec.BinaryPath())
		return false, pipeerr.Build(a.spec.Kind.String(), exitCode, err)
	}

	logger.Debug("Compile finished.", "binary", a.spec.BinaryPath(), "binary_mtime", after.BinaryModTime)
	return true, nil
}

// Invoke runs the binary with args and blocks until it exits. It refuses to
// run a binary that is stale or absent; call EnsureBuilt first.
func (a *Artifact) Invoke(ctx context.Context, args []string) error {
	logger := ctxlog.FromContext(ctx).With("executable", a.spec.Kind.String())

	state, err := a.State()
	if err != nil {
		return err
	}
	if state.Stale() {
		return &pipeerr.Error{
			Kind:       pipeerr.BuildFailed,
			Executable: a.spec.Kind.String(),
			ExitCode:   -1,
			Path:       a.spec.BinaryPath(),
			Msg:        "binary is stale or absent, refusing to run it",
		}
	}

	logger.Info("▶️ Running", "binary", a.spec.BinaryPath(), "args", args)
	exitCode, err := a.runner.Run(ctx, a.spec.BinaryPath(), args...)
	if err != nil || exitCode != 0 {
		if err == nil {
			err = fmt.Errorf("exited with status %d", exitCode)
		}
		logger.Debug("Executable failed.", "exit_code", exitCode, "error", err)
		return pipeerr.Run(a.spec.Kind.String(), exitCode, err)
	}
	logger.Info("✅ Finished", "binary", a.spec.BinaryPath())
	return nil
}
