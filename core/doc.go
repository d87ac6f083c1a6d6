// Package core contains the catalog update logic. It has no knowledge of
// HTTP frameworks, caches or file formats; those arrive through the
// interfaces package.
//
// The core package is organized into several sub-packages:
//
// - domain: Catalog, template, source result and run models
// - coordinator: Sequential discovery source runner and the cancelable task registry
// - aggregate: Folds per-source results into the catalog in discovery order
// - ranking: Probes candidates through a bounded worker pool and orders them by score
// - gapfill: Finds under-served channels and merges a fallback supplement
// - pipeline: One end-to-end run from template to output sinks
// - updater: Serializes runs for the viewer and the binary
// - progress: Phase-local progress trackers and progress sinks
// - errors: Custom error types, including the cancellation sentinel
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, sources, sinks)
//
// # Design Principles
//
// - All external dependencies are injected via interfaces
// - Each phase returns a new catalog; only the pipeline run keeps the current one
// - Cancellation is an outcome, not an error
package core
