package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Task represents a unit of work
type Task func(ctx context.Context) error

// Pool manages concurrent processing of tasks
type Pool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	logger      *slog.Logger
}

// NewPool creates a pool with the specified number of workers
func NewPool(workerCount int, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Debug("worker pool started", "workers", p.workerCount)
}

// Submit adds a task to the queue
func (p *Pool) Submit(task Task) {
	select {
	case p.taskQueue <- task:
	case <-p.ctx.Done():
		p.logger.Warn("pool is shutting down, task rejected")
	}
}

// Wait blocks until all submitted tasks complete
func (p *Pool) Wait() {
	p.closeMux.Lock()
	if !p.closed {
		close(p.taskQueue)
		p.closed = true
	}
	p.closeMux.Unlock()

	p.wg.Wait()
}

// Shutdown cancels all workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.Wait()
}

// worker processes tasks from the queue
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}

			if err := task(p.ctx); err != nil {
				p.logger.Error("task failed", "worker", id, "err", err)
			}

		case <-p.ctx.Done():
			return
		}
	}
}
