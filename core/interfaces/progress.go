package interfaces

// ProgressSink receives progress reports from every pipeline phase.
// Percent is phase-local (0..100); done is set exactly once, at the end of a run.
// Link optionally points at a place where the result can be viewed.
type ProgressSink interface {
	Report(message string, percent int, done bool, link string)
}
