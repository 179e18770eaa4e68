// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Parameters, the immutable input of one pipeline run, and
// the enumerations it is built from.
//
// Why validate on construction?
//
// The axis/space pairing is a hard invariant: a real space run with an observer
// axis, or a redshift space run without one, has no meaning to the transform
// executable. Rejecting such a pair at construction keeps every later stage free
// of silent defaults.
package model

import (
	"strconv"
	"strings"

	"github.com/vk/powerspec/internal/pipeerr"
)

// Space selects real or redshift space coordinates.
type Space string

const (
	SpaceReal     Space = "real"
	SpaceRedshift Space = "redshift"
)

// ParseSpace accepts the configuration spelling of a Space.
func ParseSpace(raw string) (Space, error) {
	switch Space(strings.ToLower(strings.TrimSpace(raw))) {
	case SpaceReal:
		return SpaceReal, nil
	case SpaceRedshift:
		return SpaceRedshift, nil
	}
	return "", pipeerr.InvalidParams("space must be %q or %q, got %q", SpaceReal, SpaceRedshift, raw)
}

// Axis is the observer's line of sight for redshift space distortions.
type Axis string

const (
	AxisNone Axis = "none"
	AxisX    Axis = "x"
	AxisY    Axis = "y"
	AxisZ    Axis = "z"
)

// ParseAxis accepts the configuration spelling of an Axis. An empty string is
// AxisNone.
func ParseAxis(raw string) (Axis, error) {
	switch Axis(strings.ToLower(strings.TrimSpace(raw))) {
	case "", AxisNone:
		return AxisNone, nil
	case AxisX:
		return AxisX, nil
	case AxisY:
		return AxisY, nil
	case AxisZ:
		return AxisZ, nil
	}
	return "", pipeerr.InvalidParams("axis must be one of none, x, y, z, got %q", raw)
}

// SpectrumKind selects the spectrum estimator output flavor.
type SpectrumKind string

const (
	SpectrumPlk  SpectrumKind = "plk"
	SpectrumPkmu SpectrumKind = "pkmu"
)

// SpectrumKinds lists every spectrum kind.
var SpectrumKinds = []SpectrumKind{SpectrumPlk, SpectrumPkmu}

// ParseSpectrumKind accepts the configuration spelling of a SpectrumKind.
func ParseSpectrumKind(raw string) (SpectrumKind, error) {
	switch SpectrumKind(strings.ToLower(strings.TrimSpace(raw))) {
	case SpectrumPlk:
		return SpectrumPlk, nil
	case SpectrumPkmu:
		return SpectrumPkmu, nil
	}
	return "", pipeerr.InvalidParams("spectrum kind must be %q or %q, got %q", SpectrumPlk, SpectrumPkmu, raw)
}

// Tag is the artifact name prefix of the spectrum stage.
func (k SpectrumKind) Tag() string {
	switch k {
	case SpectrumPkmu:
		return "Pkmu"
	default:
		return "Plk"
	}
}

// ObserverAxisCode is the integer line-of-sight encoding passed to both
// executables: 0 for real space, 1..3 for x..z in redshift space.
type ObserverAxisCode int

// Parameters describes one run. Build it with NewParameters.
type Parameters struct {
	MockFile     string
	Space        Space
	Axis         Axis
	BoxSize      float64
	GridSize     int
	BinCount     int
	Redshift     float64
	OmegaMatter  float64
	SpectrumKind SpectrumKind
}

// NewParameters validates p and returns it. The returned value is the only
// form the pipeline accepts.
func NewParameters(p Parameters) (Parameters, error) {
	if p.Axis == "" {
		p.Axis = AxisNone
	}
	if p.SpectrumKind == "" {
		p.SpectrumKind = SpectrumPlk
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate checks every invariant of p and reports the first violation as an
// InvalidParameters error.
func (p Parameters) Validate() error {
	if strings.TrimSpace(p.MockFile) == "" {
		return pipeerr.InvalidParams("mock file is required")
	}
	if _, err := ParseSpace(string(p.Space)); err != nil {
		return err
	}
	if _, err := ParseAxis(string(p.Axis)); err != nil {
		return err
	}
	if _, err := ParseSpectrumKind(string(p.SpectrumKind)); err != nil {
		return err
	}
	switch {
	case p.Space == SpaceReal && p.Axis != AxisNone:
		return pipeerr.InvalidParams("real space runs take no observer axis, got %q", p.Axis)
	case p.Space == SpaceRedshift && (p.Axis == AxisNone || p.Axis == ""):
		return pipeerr.InvalidParams("redshift space runs need an observer axis (x, y or z)")
	}
	if p.BoxSize <= 0 {
		return pipeerr.InvalidParams("box size must be positive, got %v", p.BoxSize)
	}
	if p.GridSize <= 0 {
		return pipeerr.InvalidParams("grid size must be positive, got %d", p.GridSize)
	}
	if p.BinCount <= 0 {
		return pipeerr.InvalidParams("bin count must be positive, got %d", p.BinCount)
	}
	return nil
}

// ObserverAxisCode derives the executables' line-of-sight code from the
// space/axis pair. It assumes p has been validated.
func (p Parameters) ObserverAxisCode() ObserverAxisCode {
	if p.Space != SpaceRedshift {
		return 0
	}
	switch p.Axis {
	case AxisX:
		return 1
	case AxisY:
		return 2
	case AxisZ:
		return 3
	}
	return 0
}

// AxisDescriptor is the artifact name component for the line of sight:
// "real" in real space, "<axis>OmegaM<omegaMatter>" in redshift space.
func (p Parameters) AxisDescriptor() string {
	if p.ObserverAxisCode() == 0 {
		return "real"
	}
	return string(p.Axis) + "OmegaM" + FormatNumber(p.OmegaMatter)
}

// FormatNumber renders a float in its shortest decimal form, the spelling used
// both in artifact names and on executable command lines.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
