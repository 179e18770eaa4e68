package config

import (
	"fmt"
	"strings"

	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/pipeerr"
	"github.com/vk/powerspec/internal/pipeline"
)

// Model is the unified, format-agnostic representation of a pipeline
// configuration.
type Model struct {
	Toolchain   Toolchain
	Executables map[executable.Kind]*Executable
	OutputDir   string
	Run         *Run
	Publish     *Publish
}

// Toolchain is the compiler shared by both executables.
type Toolchain struct {
	Compiler string
	Flags    []string
}

// Executable is the source location and extra link flags of one program.
// A nil LinkFlags keeps the kind's default.
type Executable struct {
	Kind      executable.Kind
	Source    string
	LinkFlags []string
}

// Run holds the raw run settings. Enum fields keep their configuration
// spelling; ToParameters parses and validates them.
type Run struct {
	MockFile     string
	Space        string
	Axis         string
	BoxSize      float64
	GridSize     int
	BinCount     int
	Redshift     float64
	OmegaMatter  float64
	SpectrumKind string
}

// Publish configures the optional artifact upload.
type Publish struct {
	Endpoint string
	Bucket   string
	Region   string
	Prefix   string
	UseSSL   bool
}

// DefaultRun holds the run settings used for omitted attributes.
func DefaultRun() Run {
	return Run{
		Space:        string(model.SpaceReal),
		Axis:         string(model.AxisNone),
		BoxSize:      2500,
		GridSize:     960,
		BinCount:     480,
		Redshift:     0.562,
		OmegaMatter:  0.31,
		SpectrumKind: string(model.SpectrumPlk),
	}
}

// ToParameters converts the raw run into validated model.Parameters.
func (r Run) ToParameters() (model.Parameters, error) {
	space, err := model.ParseSpace(r.Space)
	if err != nil {
		return model.Parameters{}, err
	}
	axis, err := model.ParseAxis(r.Axis)
	if err != nil {
		return model.Parameters{}, err
	}
	kind, err := model.ParseSpectrumKind(r.SpectrumKind)
	if err != nil {
		return model.Parameters{}, err
	}
	return model.NewParameters(model.Parameters{
		MockFile:     r.MockFile,
		Space:        space,
		Axis:         axis,
		BoxSize:      r.BoxSize,
		GridSize:     r.GridSize,
		BinCount:     r.BinCount,
		Redshift:     r.Redshift,
		OmegaMatter:  r.OmegaMatter,
		SpectrumKind: kind,
	})
}

// Validate checks that the model is complete enough to run a pipeline.
func (m *Model) Validate() error {
	var missing []string
	for _, kind := range executable.Kinds {
		exe, ok := m.Executables[kind]
		if !ok || exe == nil || strings.TrimSpace(exe.Source) == "" {
			missing = append(missing, fmt.Sprintf("executable %q source", kind))
		}
	}
	if strings.TrimSpace(m.OutputDir) == "" {
		missing = append(missing, "output dir")
	}
	if m.Run == nil {
		missing = append(missing, "run block")
	}
	if strings.TrimSpace(m.Toolchain.Compiler) == "" {
		missing = append(missing, "toolchain compiler")
	}
	if m.Publish != nil {
		if strings.TrimSpace(m.Publish.Endpoint) == "" {
			missing = append(missing, "publish endpoint")
		}
		if strings.TrimSpace(m.Publish.Bucket) == "" {
			missing = append(missing, "publish bucket")
		}
	}
	if len(missing) > 0 {
		return pipeerr.Configuration("incomplete configuration: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ExecutableToolchain merges the configured compiler and per-kind link
// flags over the defaults.
func (m *Model) ExecutableToolchain() executable.Toolchain {
	tc := executable.DefaultToolchain()
	if m.Toolchain.Compiler != "" {
		tc.Compiler = m.Toolchain.Compiler
	}
	if m.Toolchain.Flags != nil {
		tc.Flags = m.Toolchain.Flags
	}
	if exe := m.Executables[executable.Transform]; exe != nil && exe.LinkFlags != nil {
		tc.TransformLinkFlags = exe.LinkFlags
	}
	if exe := m.Executables[executable.Spectrum]; exe != nil && exe.LinkFlags != nil {
		tc.SpectrumLinkFlags = exe.LinkFlags
	}
	return tc
}

// PipelineConfig builds the orchestrator configuration.
func (m *Model) PipelineConfig() pipeline.Config {
	cfg := pipeline.Config{
		OutputDir: m.OutputDir,
		Toolchain: m.ExecutableToolchain(),
	}
	if exe := m.Executables[executable.Transform]; exe != nil {
		cfg.TransformSource = exe.Source
	}
	if exe := m.Executables[executable.Spectrum]; exe != nil {
		cfg.SpectrumSource = exe.Source
	}
	return cfg
}
