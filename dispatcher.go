package discounts

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"goflare.io/discounts/models"
)

// WorkRequest is one order-created event waiting for a worker.
type WorkRequest struct {
	Order *models.Order
	Ctx   context.Context
}

// Dispatcher fans order-created events out to a fixed pool of workers. Each
// worker registers its job channel on WorkerPool when idle.
type Dispatcher struct {
	WorkerPool chan chan WorkRequest
	maxWorkers int
	jobQueue   chan WorkRequest
	recorder   *Recorder
	workers    []Worker
	stop       chan bool
	logger     *zap.Logger
	mu         sync.Mutex
}

func NewDispatcher(maxWorkers, jobQueueSize int, recorder *Recorder, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		WorkerPool: make(chan chan WorkRequest, maxWorkers),
		maxWorkers: maxWorkers,
		jobQueue:   make(chan WorkRequest, jobQueueSize),
		recorder:   recorder,
		stop:       make(chan bool),
		logger:     logger,
	}
}

func (d *Dispatcher) Run() {
	d.mu.Lock()
	for i := 0; i < d.maxWorkers; i++ {
		worker := NewWorker(i+1, d.WorkerPool, d.recorder, d.logger)
		worker.Start()
		d.workers = append(d.workers, worker)
	}
	d.mu.Unlock()

	go d.dispatch()
}

// Submit queues an order for processing. It drops the order when the queue
// is full or the context is already canceled, logging either case.
func (d *Dispatcher) Submit(ctx context.Context, order *models.Order) {
	select {
	case d.jobQueue <- WorkRequest{Order: order, Ctx: ctx}:
	case <-ctx.Done():
		d.logger.Warn("order dropped before queueing",
			zap.String("order_id", order.ID),
			zap.Error(ctx.Err()))
	default:
		d.logger.Warn("order queue full, dropping order",
			zap.String("order_id", order.ID))
	}
}

func (d *Dispatcher) dispatch() {
	var wg sync.WaitGroup

	for {
		select {
		case job := <-d.jobQueue:
			wg.Add(1)
			go func(job WorkRequest) {
				defer wg.Done()
				select {
				case jobChannel := <-d.WorkerPool:
					select {
					case jobChannel <- job:
					case <-job.Ctx.Done():
						d.logger.Warn("job context canceled before processing",
							zap.Error(job.Ctx.Err()),
							zap.String("order_id", job.Order.ID))
					}
				case <-job.Ctx.Done():
					d.logger.Warn("job context canceled while waiting for available worker",
						zap.Error(job.Ctx.Err()),
						zap.String("order_id", job.Order.ID))
				}
			}(job)

		case <-d.stop:
			wg.Wait()
			return
		}
	}
}

// Stop signals the dispatch loop first so in-flight jobs can still reach a
// live worker while the loop drains, then quits the workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	close(d.stop)
	for _, worker := range d.workers {
		worker.Stop()
	}
}
