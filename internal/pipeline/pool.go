package pipeline

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-matcher/internal/metrics"
)

// Pool errors
var (
	ErrQueueFull = errors.New("pipeline queue is full")
	ErrStopped   = errors.New("pipeline is stopped")
)

// Work is one unit of background processing.
type Work func(ctx context.Context)

// Pool runs Work on a fixed number of workers fed by a bounded queue.
type Pool struct {
	queue  chan Work
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	stopped bool
}

// NewPool starts workers goroutines reading from a queue of size entries.
func NewPool(workers, size int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		queue:  make(chan Work, size),
		group:  &errgroup.Group{},
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.group.Go(p.worker)
	}
	return p
}

func (p *Pool) worker() error {
	for work := range p.queue {
		metrics.SetQueueDepth(len(p.queue))
		work(p.ctx)
	}
	return nil
}

// Submit enqueues work without blocking. It returns ErrQueueFull when the
// queue has no free slot and ErrStopped after Stop.
func (p *Pool) Submit(work Work) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- work:
		metrics.SetQueueDepth(len(p.queue))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new work and waits for queued work to finish. If ctx ends
// first, running work sees its context cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.group.Wait() }()

	select {
	case err := <-done:
		p.cancel()
		return err
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}
