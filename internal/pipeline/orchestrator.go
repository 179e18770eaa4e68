package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/marshal"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/naming"
	"github.com/vk/powerspec/internal/validate"
)

// Config is the static part of a pipeline: where outputs go and how the two
// executables are found and built.
type Config struct {
	OutputDir       string
	TransformSource string
	SpectrumSource  string
	Toolchain       executable.Toolchain
}

// Source returns the configured source path of kind.
func (c Config) Source(kind executable.Kind) string {
	switch kind {
	case executable.Transform:
		return c.TransformSource
	case executable.Spectrum:
		return c.SpectrumSource
	}
	return ""
}

// Orchestrator runs pipelines. It keeps no per-run state, so one value may
// serve several runs.
type Orchestrator struct {
	cfg      Config
	runner   executable.Runner
	observer func(Transition)
	newRunID func() string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers fn to be called synchronously on every transition.
func WithObserver(fn func(Transition)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithRunID replaces the UUID run id generator.
func WithRunID(fn func() string) Option {
	return func(o *Orchestrator) { o.newRunID = fn }
}

// New creates an Orchestrator that spawns processes through runner.
func New(cfg Config, runner executable.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		runner:   runner,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Artifact returns the executable artifact of kind under this configuration.
func (o *Orchestrator) Artifact(kind executable.Kind) *executable.Artifact {
	spec := executable.Spec{Kind: kind, SourcePath: o.cfg.Source(kind)}
	return executable.NewArtifact(spec, o.cfg.Toolchain, o.runner)
}

// Handoff carries the transform stage's output into the spectrum stage.
type Handoff struct {
	TransformOutput string
}

// Result describes a finished or aborted run.
type Result struct {
	RunID           string
	Parameters      model.Parameters
	TransformOutput string
	SpectrumOutput  string
	History         []State
	Rebuilt         map[executable.Kind]bool
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Final is the last state the run reached.
func (r *Result) Final() State {
	if len(r.History) == 0 {
		return 0
	}
	return r.History[len(r.History)-1]
}

// Run executes one pipeline synchronously. The returned Result is non-nil
// even on failure; err is the originating component error, unwrapped.
func (o *Orchestrator) Run(ctx context.Context, p model.Parameters) (*Result, error) {
	runID := o.newRunID()
	ctx, logger := ctxlog.With(ctx, "run_id", runID)

	r := &run{
		o: o,
		res: &Result{
			RunID:      runID,
			Parameters: p,
			Rebuilt:    make(map[executable.Kind]bool),
			StartedAt:  time.Now(),
		},
	}
	defer func() { r.res.FinishedAt = time.Now() }()

	logger.Info("🚀 Starting pipeline run.", "mock_file", p.MockFile, "space", p.Space, "axis", p.Axis, "grid_size", p.GridSize)

	r.enter(ctx, Validating)
	if err := validate.Catalog(ctx, p); err != nil {
		return r.res, r.abort(ctx, err)
	}
	if err := o.checkSources(); err != nil {
		return r.res, r.abort(ctx, err)
	}
	if err := os.MkdirAll(o.cfg.OutputDir, 0o755); err != nil {
		return r.res, r.abort(ctx, fmt.Errorf("create output dir %s: %w", o.cfg.OutputDir, err))
	}

	handoff, err := r.transform(ctx, p)
	if err != nil {
		return r.res, r.abort(ctx, err)
	}
	if err := r.spectrum(ctx, p, handoff); err != nil {
		return r.res, r.abort(ctx, err)
	}

	r.enter(ctx, Done)
	logger.Info("🏁 Pipeline run finished.", "spectrum_output", r.res.SpectrumOutput)
	return r.res, nil
}

// checkSources fails with FileNotFound when any executable's source is
// missing, so a later stage cannot fail after an earlier one already ran.
func (o *Orchestrator) checkSources() error {
	for _, kind := range executable.Kinds {
		if _, err := executable.Inspect(o.Artifact(kind).Spec()); err != nil {
			return err
		}
	}
	return nil
}

// run is the mutable state of a single Run call.
type run struct {
	o     *Orchestrator
	res   *Result
	state State
}

func (r *run) enter(ctx context.Context, s State) {
	from := r.state
	if from != 0 && !from.Terminal() && s != Aborted && next[from] != s {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", from, s))
	}
	r.state = s
	r.res.History = append(r.res.History, s)
	ctxlog.FromContext(ctx).Debug("Pipeline state changed.", "from", from, "to", s)
	if r.o.observer != nil {
		r.o.observer(Transition{From: from, To: s})
	}
}

func (r *run) abort(ctx context.Context, err error) error {
	from := r.state
	r.state = Aborted
	r.res.History = append(r.res.History, Aborted)
	ctxlog.FromContext(ctx).Error("Pipeline run aborted.", "state", from, "error", err)
	if r.o.observer != nil {
		r.o.observer(Transition{From: from, To: Aborted, Err: err})
	}
	return err
}

func (r *run) transform(ctx context.Context, p model.Parameters) (Handoff, error) {
	output := naming.Path(r.o.cfg.OutputDir, p, model.StageTransform)
	r.res.TransformOutput = output

	r.enter(ctx, BuildingTransform)
	args, err := marshal.Arguments(executable.Transform, marshal.TransformBag(p, p.MockFile, output))
	if err != nil {
		return Handoff{}, err
	}
	artifact := r.o.Artifact(executable.Transform)
	rebuilt, err := artifact.EnsureBuilt(ctx)
	if err != nil {
		return Handoff{}, err
	}
	r.res.Rebuilt[executable.Transform] = rebuilt

	r.enter(ctx, RunningTransform)
	if err := artifact.Invoke(ctx, args); err != nil {
		return Handoff{}, err
	}
	return Handoff{TransformOutput: output}, nil
}

func (r *run) spectrum(ctx context.Context, p model.Parameters, h Handoff) error {
	output := naming.Path(r.o.cfg.OutputDir, p, model.StageSpectrum)
	r.res.SpectrumOutput = output

	r.enter(ctx, BuildingSpectrum)
	args, err := marshal.Arguments(executable.Spectrum, marshal.SpectrumBag(p, h.TransformOutput, output))
	if err != nil {
		return err
	}
	artifact := r.o.Artifact(executable.Spectrum)
	rebuilt, err := artifact.EnsureBuilt(ctx)
	if err != nil {
		return err
	}
	r.res.Rebuilt[executable.Spectrum] = rebuilt

	r.enter(ctx, RunningSpectrum)
	return artifact.Invoke(ctx, args)
}
