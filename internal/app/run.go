package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/manifest"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/naming"
	"github.com/vk/powerspec/internal/pipeline"
	"github.com/vk/powerspec/internal/publish"
)

// Run executes the main application logic: one pipeline run, or a plan of
// it, followed by the manifest and the optional upload.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	params, err := a.model.Run.ToParameters()
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithObserver(func(t pipeline.Transition) {
		a.state.Store(t.To)
	})}
	if a.newRunID != nil {
		opts = append(opts, pipeline.WithRunID(a.newRunID))
	}
	orch := pipeline.New(a.model.PipelineConfig(), a.runner, opts...)

	if a.config.Plan {
		plans, err := orch.Plan(ctx, params)
		if err != nil {
			return err
		}
		a.printPlan(plans)
		return nil
	}

	spectrumArtifact := naming.Path(a.model.OutputDir, params, model.StageSpectrum)
	if _, err := manifest.CheckCollision(ctx, spectrumArtifact, params); err != nil {
		a.logger.Warn("Could not read previous manifest.", "error", err)
	}
	if _, err := manifest.CheckTransformCollision(ctx, a.model.OutputDir, params); err != nil {
		a.logger.Warn("Could not read previous manifest.", "error", err)
	}

	res, err := orch.Run(ctx, params)
	if err != nil {
		return fmt.Errorf("pipeline run %s failed: %w", res.RunID, err)
	}

	specs := make([]executable.Spec, 0, len(executable.Kinds))
	for _, kind := range executable.Kinds {
		specs = append(specs, orch.Artifact(kind).Spec())
	}
	manifestPath := manifest.PathFor(res.SpectrumOutput)
	if err := manifest.Write(manifestPath, manifest.New(res, specs)); err != nil {
		return err
	}
	a.logger.Info("📝 Manifest written.", "path", manifestPath)

	if a.model.Publish != nil {
		if err := a.publish(ctx, res.RunID, res.TransformOutput, res.SpectrumOutput, manifestPath); err != nil {
			return fmt.Errorf("pipeline run %s completed but publishing failed: %w", res.RunID, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) publish(ctx context.Context, runID string, files ...string) error {
	cfg := publish.Config{
		Endpoint: a.model.Publish.Endpoint,
		Bucket:   a.model.Publish.Bucket,
		Region:   a.model.Publish.Region,
		Prefix:   a.model.Publish.Prefix,
		UseSSL:   a.model.Publish.UseSSL,
	}.WithEnvCredentials()

	store, err := a.newStore(cfg)
	if err != nil {
		return err
	}
	_, err = publish.NewPublisher(store, cfg).Publish(ctx, runID, files...)
	return err
}

func (a *App) printPlan(plans []pipeline.StagePlan) {
	for _, p := range plans {
		build := "up to date"
		if p.Stale {
			build = "stale, will compile"
		}
		fmt.Fprintf(a.outW, "%s (%s)\n", p.Kind, build)
		if p.Stale {
			fmt.Fprintf(a.outW, "  compile: %s\n", strings.Join(p.Compile, " "))
		}
		fmt.Fprintf(a.outW, "  run:     %s\n", strings.Join(p.Command, " "))
		fmt.Fprintf(a.outW, "  output:  %s\n", p.Output)
	}
}
