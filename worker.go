package discounts

import (
	"go.uber.org/zap"
)

type Worker struct {
	ID         int
	WorkerPool chan chan WorkRequest
	JobChannel chan WorkRequest
	quit       chan bool
	recorder   *Recorder
	logger     *zap.Logger
}

func NewWorker(id int, workerPool chan chan WorkRequest, recorder *Recorder, logger *zap.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan WorkRequest),
		quit:       make(chan bool),
		recorder:   recorder,
		logger:     logger,
	}
}

func (w Worker) Start() {
	go func() {
		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.logger.Info("processing order created event",
					zap.Int("worker", w.ID),
					zap.String("order_id", job.Order.ID))

				if err := w.recorder.Record(job.Ctx, job.Order); err != nil {
					w.logger.Error("failed to process order created event",
						zap.Int("worker", w.ID),
						zap.String("order_id", job.Order.ID),
						zap.Error(err))
				}

			case <-w.quit:
				return
			}
		}
	}()
}

func (w Worker) Stop() {
	close(w.quit)
}
