// ABOUTME: Run domain model records the outcome of one pipeline invocation
// ABOUTME: Shared by the pipeline, the snapshot store and the viewer

package domain

import "time"

// RunStatus is the terminal state of a pipeline run
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// RunSummary describes a finished pipeline run
type RunSummary struct {
	ID         string        `json:"id"`
	Status     RunStatus     `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Channels   int           `json:"channels"`
	Candidates int           `json:"candidates"`
	Gaps       []ChannelKey  `json:"gaps,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Snapshot is the persisted view of a completed run
type Snapshot struct {
	Run     RunSummary `json:"run"`
	Catalog Catalog    `json:"catalog"`
}
