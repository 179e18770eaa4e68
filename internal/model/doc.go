// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the immutable description of one power spectrum run.
//
// # Core Concepts
//
//   - Parameters: the physical and grid settings of a run, together with the
//     catalog it reads. A Parameters value is built once by NewParameters and
//     passed by value afterwards; nothing in the pipeline mutates it.
//
//   - Space and Axis: real space runs have no line of sight; redshift space runs
//     pick one box axis as the observer direction. The pair is encoded as an
//     ObserverAxisCode that the numerical executables understand.
//
//   - Stage: the two external steps of the pipeline, used to tag output artifacts.
//
// The package has no knowledge of files, processes or configuration formats.
// Loaders translate their input into Parameters; the pipeline consumes them.
package model
