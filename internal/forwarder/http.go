package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/vocabquiz/backend/internal/domain/result"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 250 * time.Millisecond
	maxDelay          = 2 * time.Second
)

// ForwardError is returned when the remote endpoint rejected the result or
// could not be reached.
type ForwardError struct {
	Status  int // 0 when no response was received
	Reason  string
	Wrapped error
}

func (e *ForwardError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("forward failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("forward failed: %s", e.Reason)
}

func (e *ForwardError) Unwrap() error {
	return e.Wrapped
}

// HTTPForwarder posts results as JSON to a remote URL, retrying on network
// errors and on 429/5xx responses with jittered exponential backoff.
type HTTPForwarder struct {
	url        string
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
}

var _ Forwarder = (*HTTPForwarder)(nil)

type Option func(*HTTPForwarder)

// WithRetry overrides the retry budget and the first backoff delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(f *HTTPForwarder) {
		f.maxRetries = maxRetries
		f.baseDelay = baseDelay
	}
}

func NewHTTPForwarder(url string, timeout time.Duration, opts ...Option) *HTTPForwarder {
	f := &HTTPForwarder{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *HTTPForwarder) Forward(ctx context.Context, r result.QuizResult) error {
	body, err := json.Marshal(r)
	if err != nil {
		return &ForwardError{Reason: "encode result", Wrapped: err}
	}

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, attempt-1); err != nil {
				return err
			}
		}

		retry, err := f.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

func (f *HTTPForwarder) post(ctx context.Context, body []byte) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return false, &ForwardError{Reason: "build request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, &ForwardError{Reason: "execute request", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	return isRetryableStatus(resp.StatusCode), &ForwardError{
		Status: resp.StatusCode,
		Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (f *HTTPForwarder) sleep(ctx context.Context, attempt int) error {
	delay := f.baseDelay * time.Duration(1<<attempt)
	if delay > maxDelay {
		delay = maxDelay
	}
	delay += time.Duration(rand.Int64N(int64(delay/2) + 1))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
