package coordinator

import (
	"context"
	"fmt"
	"sync"
)

// Registry tracks the cancelable units of work of one pipeline run
type Registry struct {
	mu    sync.Mutex
	tasks map[string]context.CancelFunc
	seq   int
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]context.CancelFunc)}
}

// Register derives a cancelable context for a unit of work and records it.
// The returned id must be passed to Done once the unit finishes.
func (r *Registry) Register(parent context.Context, name string) (context.Context, string) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("%s#%d", name, r.seq)
	r.tasks[id] = cancel
	return ctx, id
}

// Done releases a finished unit
func (r *Registry) Done(id string) {
	r.mu.Lock()
	cancel, ok := r.tasks[id]
	delete(r.tasks, id)
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

// CancelAll cancels every registered unit and clears the registry. Safe to call repeatedly.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = make(map[string]context.CancelFunc)
	r.mu.Unlock()

	for _, cancel := range tasks {
		cancel()
	}
}

// Len returns the number of units currently registered
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
