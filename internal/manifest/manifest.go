// Package manifest records what produced a spectrum artifact in a YAML
// sidecar file, and detects when a new run would overwrite an artifact that
// was produced from different parameters.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/naming"
	"github.com/vk/powerspec/internal/pipeline"
	"gopkg.in/yaml.v3"
)

const (
	// Version of the manifest layout.
	Version = 1
	// Suffix is appended to the spectrum artifact path.
	Suffix = ".manifest.yaml"
)

// Manifest models <spectrum artifact>.manifest.yaml.
type Manifest struct {
	Version     int          `yaml:"version"`
	RunID       string       `yaml:"run_id"`
	StartedAt   time.Time    `yaml:"started_at"`
	FinishedAt  time.Time    `yaml:"finished_at"`
	Parameters  Parameters   `yaml:"parameters"`
	Executables []Executable `yaml:"executables"`
	Artifacts   Artifacts    `yaml:"artifacts"`
}

// Parameters is the YAML form of model.Parameters.
type Parameters struct {
	MockFile    string  `yaml:"mock_file"`
	Space       string  `yaml:"space"`
	Axis        string  `yaml:"axis"`
	BoxSize     float64 `yaml:"box_size"`
	GridSize    int     `yaml:"grid_size"`
	BinCount    int     `yaml:"bin_count"`
	Redshift    float64 `yaml:"redshift"`
	OmegaMatter float64 `yaml:"omega_m"`
	Spectrum    string  `yaml:"spectrum"`
}

// Executable describes one program the run used.
type Executable struct {
	Kind    string `yaml:"kind"`
	Source  string `yaml:"source"`
	Binary  string `yaml:"binary"`
	Rebuilt bool   `yaml:"rebuilt"`
}

// Artifacts are the files the run produced.
type Artifacts struct {
	Transform string `yaml:"transform"`
	Spectrum  string `yaml:"spectrum"`
}

// PathFor returns the manifest path of a spectrum artifact.
func PathFor(spectrumArtifact string) string {
	return spectrumArtifact + Suffix
}

// FromParameters converts p to its YAML form.
func FromParameters(p model.Parameters) Parameters {
	return Parameters{
		MockFile:    p.MockFile,
		Space:       string(p.Space),
		Axis:        string(p.Axis),
		BoxSize:     p.BoxSize,
		GridSize:    p.GridSize,
		BinCount:    p.BinCount,
		Redshift:    p.Redshift,
		OmegaMatter: p.OmegaMatter,
		Spectrum:    string(p.SpectrumKind),
	}
}

// New builds the manifest of a finished run. specs lists the executables
// in pipeline order.
func New(res *pipeline.Result, specs []executable.Spec) *Manifest {
	m := &Manifest{
		Version:    Version,
		RunID:      res.RunID,
		StartedAt:  res.StartedAt.UTC(),
		FinishedAt: res.FinishedAt.UTC(),
		Parameters: FromParameters(res.Parameters),
		Artifacts: Artifacts{
			Transform: res.TransformOutput,
			Spectrum:  res.SpectrumOutput,
		},
	}
	for _, spec := range specs {
		m.Executables = append(m.Executables, Executable{
			Kind:    spec.Kind.String(),
			Source:  spec.SourcePath,
			Binary:  spec.BinaryPath(),
			Rebuilt: res.Rebuilt[spec.Kind],
		})
	}
	return m
}

// Write stores m at path, replacing any previous manifest.
func Write(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// Read loads the manifest at path. A missing file yields (nil, nil).
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// Diff returns the YAML names of the fields that differ between a and b.
func Diff(a, b Parameters) []string {
	var fields []string
	add := func(name string, differs bool) {
		if differs {
			fields = append(fields, name)
		}
	}
	add("mock_file", a.MockFile != b.MockFile)
	add("space", a.Space != b.Space)
	add("axis", a.Axis != b.Axis)
	add("box_size", a.BoxSize != b.BoxSize)
	add("grid_size", a.GridSize != b.GridSize)
	add("bin_count", a.BinCount != b.BinCount)
	add("redshift", a.Redshift != b.Redshift)
	add("omega_m", a.OmegaMatter != b.OmegaMatter)
	add("spectrum", a.Spectrum != b.Spectrum)
	return fields
}

// TransformDiff is Diff restricted to the fields that shape the transform
// output; bin count and spectrum kind only affect the spectrum stage.
func TransformDiff(a, b Parameters) []string {
	var fields []string
	for _, f := range Diff(a, b) {
		if f != "bin_count" && f != "spectrum" {
			fields = append(fields, f)
		}
	}
	return fields
}

// CheckCollision compares p with the manifest already stored next to
// spectrumArtifact. Artifact names do not encode every parameter, so two
// different runs can target the same files; the differing fields are
// logged as a warning and returned.
func CheckCollision(ctx context.Context, spectrumArtifact string, p model.Parameters) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	path := PathFor(spectrumArtifact)
	prev, err := Read(path)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		logger.Debug("No previous manifest.", "path", path)
		return nil, nil
	}

	fields := Diff(prev.Parameters, FromParameters(p))
	if len(fields) > 0 {
		logger.Warn("⚠️ Artifact name collision: existing outputs were produced with different parameters and will be overwritten.",
			"artifact", spectrumArtifact,
			"previous_run_id", prev.RunID,
			"fields", fields,
		)
	}
	return fields, nil
}

// CheckTransformCollision looks for manifests of the other spectrum kinds
// in outputDir. Those runs share the transform artifact of p, so a
// difference in a transform field means it will be overwritten.
func CheckTransformCollision(ctx context.Context, outputDir string, p model.Parameters) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	transformArtifact := naming.Path(outputDir, p, model.StageTransform)

	var all []string
	for _, kind := range model.SpectrumKinds {
		if kind == p.SpectrumKind {
			continue
		}
		sibling := p
		sibling.SpectrumKind = kind
		path := PathFor(naming.Path(outputDir, sibling, model.StageSpectrum))
		prev, err := Read(path)
		if err != nil {
			return all, err
		}
		if prev == nil {
			continue
		}

		fields := TransformDiff(prev.Parameters, FromParameters(p))
		if len(fields) > 0 {
			logger.Warn("⚠️ Artifact name collision: the transform output of another spectrum run was produced with different parameters and will be overwritten.",
				"artifact", transformArtifact,
				"manifest", path,
				"previous_run_id", prev.RunID,
				"fields", fields,
			)
			all = append(all, fields...)
		}
	}
	return all, nil
}
