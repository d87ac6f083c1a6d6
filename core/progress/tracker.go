// ABOUTME: Phase-local progress accounting with percent and ETA computation
// ABOUTME: Each pipeline phase owns its own Tracker state; nothing here is pipeline-global

package progress

import (
	"fmt"
	"math"
	"time"

	"channel-catalog/core/interfaces"
	"channel-catalog/pkg/utils/duration"
)

// State is the progress of a single phase
type State struct {
	Completed int
	Total     int
	StartTime time.Time
	Label     string
}

// Percent returns floor(completed/total*100) clamped to [0,100]; 0 when total is 0
func (s State) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	p := s.Completed * 100 / s.Total
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ETA estimates the time left as elapsed*(total-completed)/completed.
// ok is false until at least one unit has completed.
func (s State) ETA(now time.Time) (eta time.Duration, ok bool) {
	if s.Completed <= 0 || s.Total <= 0 {
		return 0, false
	}
	remaining := s.Total - s.Completed
	if remaining <= 0 {
		return 0, true
	}
	elapsed := now.Sub(s.StartTime)
	eta = time.Duration(math.MaxInt64)
	if est := float64(elapsed) / float64(s.Completed) * float64(remaining); est < float64(math.MaxInt64) {
		eta = time.Duration(est)
	}
	return eta, true
}

// Remaining returns the number of units left
func (s State) Remaining() int {
	if s.Completed >= s.Total {
		return 0
	}
	return s.Total - s.Completed
}

// Tracker counts completions for one phase and reports them to a sink
type Tracker struct {
	sink  interfaces.ProgressSink
	state State
	unit  string
	now   func() time.Time
}

// NewTracker creates a tracker that reports to sink; a nil sink discards reports
func NewTracker(sink interfaces.ProgressSink) *Tracker {
	if sink == nil {
		sink = Nop()
	}
	return &Tracker{sink: sink, unit: "endpoints", now: time.Now}
}

// SetUnit names what the phase counts in its reports, e.g. "sources"
func (t *Tracker) SetUnit(unit string) {
	if unit != "" {
		t.unit = unit
	}
}

// Start resets the tracker for a new phase
func (t *Tracker) Start(label string, total int) {
	t.state = State{
		Total:     total,
		StartTime: t.now(),
		Label:     label,
	}
}

// Step records one completed unit and reports the new percent and ETA.
// A zero-total phase never reports.
func (t *Tracker) Step() State {
	if t.state.Total <= 0 {
		return t.state
	}
	if t.state.Completed < t.state.Total {
		t.state.Completed++
	}
	t.sink.Report(t.message(), t.state.Percent(), false, "")
	return t.state
}

// State returns a copy of the current phase state
func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) message() string {
	eta := "unknown"
	if d, ok := t.state.ETA(t.now()); ok {
		eta = duration.FormatClock(d)
	}
	return fmt.Sprintf("Running %s, %d %s left, estimated time remaining: %s",
		t.state.Label, t.state.Remaining(), t.unit, eta)
}
