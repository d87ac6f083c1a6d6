// ABOUTME: Probe worker pool runs endpoint measurements on a bounded set of goroutines
// ABOUTME: Workers only return outcomes; the caller owns every shared structure

package workers

import (
	"context"
	"sync"

	"channel-catalog/core/interfaces"
)

// ProbeJob is one endpoint to measure. Index lets the caller map the outcome
// back to the candidate it came from.
type ProbeJob struct {
	Index int
	URL   string
}

// ProbeOutcome is the result of one ProbeJob
type ProbeOutcome struct {
	Index  int
	URL    string
	Result interfaces.ProbeResult
	Err    error
}

// ProbePool manages the bounded probing fan-out
type ProbePool struct {
	prober     interfaces.Prober
	jobQueue   chan *ProbeJob
	results    chan ProbeOutcome
	maxWorkers int
	queueSize  int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
	closed     bool
}

// worker represents an individual worker goroutine
type worker struct {
	id       int
	jobQueue <-chan *ProbeJob
	results  chan<- ProbeOutcome
	prober   interfaces.Prober
	ctx      context.Context
	wg       *sync.WaitGroup
}

// WorkerConfig holds configuration for the probe pool
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 10,
		QueueSize:  100,
	}
}

// NewProbePool creates a new probe pool
func NewProbePool(prober interfaces.Prober, config WorkerConfig) *ProbePool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultWorkerConfig().MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultWorkerConfig().QueueSize
	}

	return &ProbePool{
		prober:     prober,
		jobQueue:   make(chan *ProbeJob, config.QueueSize),
		results:    make(chan ProbeOutcome, config.QueueSize),
		maxWorkers: config.MaxWorkers,
		queueSize:  config.QueueSize,
	}
}

// Start launches the workers. Cancelling ctx stops them.
func (p *ProbePool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.closed {
		return ErrPoolClosed
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.maxWorkers; i++ {
		w := &worker{
			id:       i,
			jobQueue: p.jobQueue,
			results:  p.results,
			prober:   p.prober,
			ctx:      p.ctx,
			wg:       &p.wg,
		}
		p.wg.Add(1)
		go w.run()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	p.running = true
	return nil
}

// Submit queues a job, blocking until there is room or the pool is cancelled.
// Only one goroutine may submit; it must call Close when done.
func (p *ProbePool) Submit(job *ProbeJob) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrWorkerNotRunning
	}
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	ctx := p.ctx
	p.mu.Unlock()

	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more jobs will be submitted. Workers drain the queue
// and the Results channel closes once they have all exited.
func (p *ProbePool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.jobQueue)
}

// Results returns the outcome channel
func (p *ProbePool) Results() <-chan ProbeOutcome {
	return p.results
}

// Stop cancels in-flight probes and waits for every worker to exit
func (p *ProbePool) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// run is the main loop for each worker
func (w *worker) run() {
	defer w.wg.Done()

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			if !w.process(job) {
				return
			}
		case <-w.ctx.Done():
			return
		}
	}
}

// process measures one endpoint; it returns false when the pool was cancelled
func (w *worker) process(job *ProbeJob) bool {
	result, err := w.prober.Probe(w.ctx, job.URL)
	outcome := ProbeOutcome{
		Index:  job.Index,
		URL:    job.URL,
		Result: result,
		Err:    err,
	}

	select {
	case w.results <- outcome:
		return true
	case <-w.ctx.Done():
		return false
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrPoolClosed       = &WorkerError{Message: "worker pool is closed"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
