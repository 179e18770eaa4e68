// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Stage, the position of an external step in the pipeline.
package model

// Stage identifies which external step produced an artifact.
type Stage int

const (
	StageTransform Stage = iota + 1
	StageSpectrum
)

func (s Stage) String() string {
	switch s {
	case StageTransform:
		return "transform"
	case StageSpectrum:
		return "spectrum"
	default:
		return "unknown"
	}
}
