// ABOUTME: Progress sink implementations: no-op, function adapter, fan-out, logging and latest-event
// ABOUTME: Headless runs use Nop; the viewer reads the Latest sink

package progress

import (
	"sync"
	"time"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
)

type nopSink struct{}

func (nopSink) Report(string, int, bool, string) {}

// Nop returns a sink that discards every report
func Nop() interfaces.ProgressSink {
	return nopSink{}
}

// Func adapts a plain function to the ProgressSink interface
type Func func(message string, percent int, done bool, link string)

// Report calls f
func (f Func) Report(message string, percent int, done bool, link string) {
	f(message, percent, done, link)
}

// Multi fans every report out to all sinks in order
type Multi []interfaces.ProgressSink

// Report forwards the event to each non-nil sink
func (m Multi) Report(message string, percent int, done bool, link string) {
	for _, sink := range m {
		if sink != nil {
			sink.Report(message, percent, done, link)
		}
	}
}

// LogSink writes progress reports through the structured logger
type LogSink struct {
	Logger interfaces.Logger
}

// Report logs the event at info level
func (s LogSink) Report(message string, percent int, done bool, link string) {
	if s.Logger == nil {
		return
	}
	fields := map[string]interface{}{
		"percent": percent,
		"done":    done,
	}
	if link != "" {
		fields["link"] = link
	}
	s.Logger.Info(message, fields)
}

// Latest keeps the most recent event; safe for concurrent use
type Latest struct {
	mu    sync.RWMutex
	event *domain.ProgressEvent
}

// Report stores the event
func (l *Latest) Report(message string, percent int, done bool, link string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.event = &domain.ProgressEvent{
		Message: message,
		Percent: percent,
		Done:    done,
		Link:    link,
		At:      time.Now(),
	}
}

// Event returns the last event, if any
func (l *Latest) Event() (domain.ProgressEvent, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.event == nil {
		return domain.ProgressEvent{}, false
	}
	return *l.event, true
}

// Recorder collects every event; intended for tests and diagnostics
type Recorder struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
}

// Report appends the event
func (r *Recorder) Report(message string, percent int, done bool, link string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, domain.ProgressEvent{
		Message: message,
		Percent: percent,
		Done:    done,
		Link:    link,
		At:      time.Now(),
	})
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []domain.ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ProgressEvent, len(r.events))
	copy(out, r.events)
	return out
}
