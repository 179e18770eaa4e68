// Package naming derives output artifact paths from run parameters.
//
// A name encodes the stage, grid size, line of sight and catalog base name
// only. Runs that differ in box size, bin count or redshift map to the same
// path; the run manifest records the full parameter set so such collisions
// can be detected.
package naming

import (
	"path/filepath"
	"strconv"

	"github.com/vk/powerspec/internal/model"
)

// TransformTag prefixes transform stage artifacts.
const TransformTag = "FFT"

// StageTag returns the artifact name prefix of stage.
func StageTag(p model.Parameters, stage model.Stage) string {
	if stage == model.StageTransform {
		return TransformTag
	}
	return p.SpectrumKind.Tag()
}

// FileName is <stageTag><gridSize><axisDescriptor>_<catalogBase>.
func FileName(p model.Parameters, stage model.Stage) string {
	return StageTag(p, stage) +
		strconv.Itoa(p.GridSize) +
		p.AxisDescriptor() +
		"_" + filepath.Base(p.MockFile)
}

// Path joins outputDir with FileName.
func Path(outputDir string, p model.Parameters, stage model.Stage) string {
	return filepath.Join(outputDir, FileName(p, stage))
}
