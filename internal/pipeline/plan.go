package pipeline

import (
	"context"

	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/marshal"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/naming"
	"github.com/vk/powerspec/internal/validate"
)

// StagePlan is what a run would do for one executable.
type StagePlan struct {
	Kind    executable.Kind
	Source  string
	Binary  string
	Stale   bool
	Compile []string
	Command []string
	Output  string
}

// Plan validates p and resolves both stages without building or running
// anything.
func (o *Orchestrator) Plan(ctx context.Context, p model.Parameters) ([]StagePlan, error) {
	if err := validate.Catalog(ctx, p); err != nil {
		return nil, err
	}

	fftPath := naming.Path(o.cfg.OutputDir, p, model.StageTransform)
	pkPath := naming.Path(o.cfg.OutputDir, p, model.StageSpectrum)
	bags := map[executable.Kind]marshal.Bag{
		executable.Transform: marshal.TransformBag(p, p.MockFile, fftPath),
		executable.Spectrum:  marshal.SpectrumBag(p, fftPath, pkPath),
	}
	outputs := map[executable.Kind]string{
		executable.Transform: fftPath,
		executable.Spectrum:  pkPath,
	}

	plans := make([]StagePlan, 0, len(executable.Kinds))
	for _, kind := range executable.Kinds {
		artifact := o.Artifact(kind)
		state, err := artifact.State()
		if err != nil {
			return nil, err
		}
		args, err := marshal.Arguments(kind, bags[kind])
		if err != nil {
			return nil, err
		}
		compiler, compileArgs := artifact.CompileCommand()
		plans = append(plans, StagePlan{
			Kind:    kind,
			Source:  artifact.Spec().SourcePath,
			Binary:  artifact.Spec().BinaryPath(),
			Stale:   state.Stale(),
			Compile: append([]string{compiler}, compileArgs...),
			Command: append([]string{artifact.Spec().BinaryPath()}, args...),
			Output:  outputs[kind],
		})
	}
	return plans, nil
}
