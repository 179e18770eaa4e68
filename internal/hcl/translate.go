package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/powerspec/internal/config"
	"github.com/vk/powerspec/internal/executable"
)

// translator converts decoded HCL blocks into the agnostic model.
type translator struct {
	model   *config.Model
	evalCtx *hcl.EvalContext
	seen    map[string]string
}

func (t *translator) translate(ctx context.Context, file string, root *fileRoot) error {
	dir := filepath.Dir(file)

	if root.Toolchain != nil {
		if err := t.mustBeUnique("toolchain", file); err != nil {
			return err
		}
		t.model.Toolchain = config.Toolchain{
			Compiler: root.Toolchain.Compiler,
			Flags:    root.Toolchain.Flags,
		}
	}

	for _, exe := range root.Executables {
		kind, err := executable.ParseKind(exe.Kind)
		if err != nil {
			return err
		}
		if err := t.mustBeUnique(fmt.Sprintf("executable %q", kind), file); err != nil {
			return err
		}
		t.model.Executables[kind] = &config.Executable{
			Kind:      kind,
			Source:    resolvePath(dir, exe.Source),
			LinkFlags: exe.LinkFlags,
		}
	}

	if root.Output != nil {
		if err := t.mustBeUnique("output", file); err != nil {
			return err
		}
		t.model.OutputDir = resolvePath(dir, root.Output.Dir)
	}

	if root.Run != nil {
		if err := t.mustBeUnique("run", file); err != nil {
			return err
		}
		run := config.DefaultRun()
		if err := decodeAttributes(ctx, root.Run.Body, t.evalCtx, runTargets(&run)); err != nil {
			return err
		}
		run.MockFile = resolvePath(dir, run.MockFile)
		t.model.Run = &run
	}

	if root.Publish != nil {
		if err := t.mustBeUnique("publish", file); err != nil {
			return err
		}
		publish := config.Publish{UseSSL: true}
		if err := decodeAttributes(ctx, root.Publish.Body, t.evalCtx, publishTargets(&publish)); err != nil {
			return err
		}
		t.model.Publish = &publish
	}
	return nil
}
