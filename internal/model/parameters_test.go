package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/powerspec/internal/pipeerr"
)

func baseParameters() Parameters {
	return Parameters{
		MockFile:     "cat.dat",
		Space:        SpaceReal,
		Axis:         AxisNone,
		BoxSize:      2500,
		GridSize:     960,
		BinCount:     480,
		Redshift:     0.562,
		OmegaMatter:  0.31,
		SpectrumKind: SpectrumPlk,
	}
}

func TestNewParameters_AxisSpaceInvariant(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		p := baseParameters()
		p.Space = SpaceReal
		p.Axis = axis

		_, err := NewParameters(p)
		require.Error(t, err, "real space with axis %s", axis)
		assert.True(t, errors.Is(err, pipeerr.ErrInvalidParameters))
	}

	p := baseParameters()
	p.Space = SpaceRedshift
	p.Axis = AxisNone
	_, err := NewParameters(p)
	require.ErrorIs(t, err, pipeerr.ErrInvalidParameters)

	p.Axis = ""
	_, err = NewParameters(p)
	require.ErrorIs(t, err, pipeerr.ErrInvalidParameters)
}

func TestNewParameters_AcceptsConsistentPairs(t *testing.T) {
	p, err := NewParameters(baseParameters())
	require.NoError(t, err)
	assert.Equal(t, ObserverAxisCode(0), p.ObserverAxisCode())

	for axis, code := range map[Axis]ObserverAxisCode{AxisX: 1, AxisY: 2, AxisZ: 3} {
		in := baseParameters()
		in.Space = SpaceRedshift
		in.Axis = axis

		p, err := NewParameters(in)
		require.NoError(t, err)
		assert.Equal(t, code, p.ObserverAxisCode(), "axis %s", axis)
	}
}

func TestNewParameters_Defaults(t *testing.T) {
	in := baseParameters()
	in.Axis = ""
	in.SpectrumKind = ""

	p, err := NewParameters(in)
	require.NoError(t, err)
	assert.Equal(t, AxisNone, p.Axis)
	assert.Equal(t, SpectrumPlk, p.SpectrumKind)
}

func TestNewParameters_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"empty mock file", func(p *Parameters) { p.MockFile = " " }},
		{"unknown space", func(p *Parameters) { p.Space = "fourier" }},
		{"unknown axis", func(p *Parameters) { p.Axis = "w" }},
		{"unknown spectrum", func(p *Parameters) { p.SpectrumKind = "bispectrum" }},
		{"zero box", func(p *Parameters) { p.BoxSize = 0 }},
		{"negative grid", func(p *Parameters) { p.GridSize = -1 }},
		{"zero bins", func(p *Parameters) { p.BinCount = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParameters()
			tt.mutate(&p)
			_, err := NewParameters(p)
			require.ErrorIs(t, err, pipeerr.ErrInvalidParameters)
		})
	}
}

func TestAxisDescriptor(t *testing.T) {
	p := baseParameters()
	assert.Equal(t, "real", p.AxisDescriptor())

	p.Space = SpaceRedshift
	p.Axis = AxisX
	assert.Equal(t, "xOmegaM0.31", p.AxisDescriptor())

	p.Axis = AxisZ
	p.OmegaMatter = 0.3
	assert.Equal(t, "zOmegaM0.3", p.AxisDescriptor())
}

func TestParseEnums(t *testing.T) {
	s, err := ParseSpace(" Redshift ")
	require.NoError(t, err)
	assert.Equal(t, SpaceRedshift, s)

	a, err := ParseAxis("")
	require.NoError(t, err)
	assert.Equal(t, AxisNone, a)

	k, err := ParseSpectrumKind("PKMU")
	require.NoError(t, err)
	assert.Equal(t, "Pkmu", k.Tag())
	assert.Equal(t, "Plk", SpectrumPlk.Tag())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2500", FormatNumber(2500))
	assert.Equal(t, "0.562", FormatNumber(0.562))
	assert.Equal(t, "0.31", FormatNumber(0.31))
}
