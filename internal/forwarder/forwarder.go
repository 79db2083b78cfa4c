package forwarder

import (
	"context"

	"github.com/vocabquiz/backend/internal/domain/result"
)

// Forwarder sends a finished quiz result to an external collector.
// Implementations may post over HTTP or do nothing (forwarding disabled).
type Forwarder interface {
	Forward(ctx context.Context, r result.QuizResult) error
}

// Noop is used when no remote endpoint is configured.
type Noop struct{}

var _ Forwarder = Noop{}

func (Noop) Forward(context.Context, result.QuizResult) error { return nil }
