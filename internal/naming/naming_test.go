package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/powerspec/internal/model"
)

func realParams() model.Parameters {
	return model.Parameters{
		MockFile:     "/catalogs/run1/cat.dat",
		Space:        model.SpaceReal,
		Axis:         model.AxisNone,
		BoxSize:      2500,
		GridSize:     960,
		BinCount:     480,
		Redshift:     0.562,
		OmegaMatter:  0.31,
		SpectrumKind: model.SpectrumPlk,
	}
}

func TestFileName_RealSpace(t *testing.T) {
	p := realParams()
	assert.Equal(t, "FFT960real_cat.dat", FileName(p, model.StageTransform))
	assert.Equal(t, "Plk960real_cat.dat", FileName(p, model.StageSpectrum))

	p.SpectrumKind = model.SpectrumPkmu
	assert.Equal(t, "Pkmu960real_cat.dat", FileName(p, model.StageSpectrum))
}

func TestFileName_RedshiftSpace(t *testing.T) {
	p := realParams()
	p.Space = model.SpaceRedshift
	p.Axis = model.AxisX
	assert.Equal(t, "FFT960xOmegaM0.31_cat.dat", FileName(p, model.StageTransform))
	assert.Equal(t, "Plk960xOmegaM0.31_cat.dat", FileName(p, model.StageSpectrum))
}

func TestPath_Deterministic(t *testing.T) {
	p := realParams()
	out := filepath.FromSlash("/out")
	first := Path(out, p, model.StageTransform)
	assert.Equal(t, first, Path(out, p, model.StageTransform))
	assert.Equal(t, filepath.Join(out, "FFT960real_cat.dat"), first)
}

func TestPath_ChangesWithEachNamedInput(t *testing.T) {
	base := realParams()
	out := "/out"
	ref := Path(out, base, model.StageTransform)

	variants := map[string]func() (string, model.Parameters, model.Stage){
		"stage": func() (string, model.Parameters, model.Stage) { return out, base, model.StageSpectrum },
		"grid": func() (string, model.Parameters, model.Stage) {
			p := base
			p.GridSize = 480
			return out, p, model.StageTransform
		},
		"axis": func() (string, model.Parameters, model.Stage) {
			p := base
			p.Space, p.Axis = model.SpaceRedshift, model.AxisY
			return out, p, model.StageTransform
		},
		"catalog": func() (string, model.Parameters, model.Stage) {
			p := base
			p.MockFile = "/catalogs/run1/other.dat"
			return out, p, model.StageTransform
		},
		"output dir": func() (string, model.Parameters, model.Stage) { return "/elsewhere", base, model.StageTransform },
	}
	for name, variant := range variants {
		assert.NotEqual(t, ref, Path(variant()), name)
	}
}

func TestPath_UnencodedParametersCollide(t *testing.T) {
	a := realParams()
	b := realParams()
	b.BoxSize = 1000
	b.BinCount = 240
	b.Redshift = 1.0

	assert.Equal(t, Path("/out", a, model.StageSpectrum), Path("/out", b, model.StageSpectrum))
}
