// Package executable manages the two compiled numerical programs the pipeline
// drives: where their binaries live, when a binary is stale with respect to
// its source, how each kind is compiled, and how a fresh binary is invoked.
//
// Staleness is derived from file modification times on every call. Nothing
// is cached in memory, so repeated runs in one process and runs in separate
// processes see the same decision.
package executable
