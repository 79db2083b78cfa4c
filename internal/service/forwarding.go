package service

import (
	"context"
	"log/slog"

	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/forwarder"
	"github.com/vocabquiz/backend/internal/worker"
)

// ForwardingService sends completed results to the remote collector in the
// background. Delivery is best effort: failures are logged, never retried
// past what the forwarder itself does.
type ForwardingService struct {
	forwarder forwarder.Forwarder
	pool      *worker.Pool[error]
	logger    *slog.Logger
	done      chan struct{}
}

// NewForwardingService starts workers that run the forwarder. Jobs get
// context.Background because forwarding must outlive the request that
// completed the quiz.
func NewForwardingService(f forwarder.Forwarder, workers int, logger *slog.Logger) *ForwardingService {
	fs := &ForwardingService{
		forwarder: f,
		pool:      worker.NewPool[error](context.Background(), workers, 64),
		logger:    logger,
		done:      make(chan struct{}),
	}
	go fs.collect()
	return fs
}

// Submit queues r for delivery. It only blocks while the queue is full.
func (fs *ForwardingService) Submit(ctx context.Context, r result.QuizResult) {
	err := fs.pool.Submit(ctx, r.ID, func(ctx context.Context) error {
		return fs.forwarder.Forward(ctx, r)
	})
	if err != nil {
		fs.logger.Warn("result not queued for forwarding", "result_id", r.ID, "error", err)
	}
}

// Close waits for queued deliveries to finish.
func (fs *ForwardingService) Close() {
	fs.pool.Close()
	<-fs.done
}

func (fs *ForwardingService) collect() {
	defer close(fs.done)
	for res := range fs.pool.Results() {
		if res.Output != nil {
			fs.logger.Error("forwarding failed", "result_id", res.JobID, "error", res.Output)
			continue
		}
		fs.logger.Debug("result forwarded", "result_id", res.JobID)
	}
}
