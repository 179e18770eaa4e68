// Package pipeline sequences one power spectrum run: validate the catalog,
// build and run the transform executable, then build and run the spectrum
// executable on the transform's output.
//
// The orchestrator is a linear state machine:
//
//	Validating → BuildingTransform → RunningTransform →
//	BuildingSpectrum → RunningSpectrum → Done
//
// Any failure moves the run to Aborted and returns the originating error
// unchanged. Partially written artifacts are left on disk.
package pipeline
