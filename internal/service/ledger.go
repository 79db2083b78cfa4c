// internal/service/ledger.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/store"
)

// PersistFunc writes a staged ledger. key is the student key the staged
// change touched; blob is the whole encoded ledger.
type PersistFunc func(ctx context.Context, key string, blob []byte) error

// LedgerService owns the process-wide mistake ledger. It is loaded once at
// startup; every change is staged on a copy, persisted, and only then
// becomes visible.
type LedgerService struct {
	store     store.Store
	namespace string
	logger    *slog.Logger

	mu     sync.RWMutex
	ledger *ledger.Ledger
}

// NewLedgerService loads the ledger stored under namespace. A missing blob
// starts an empty ledger; so does an unreadable one, which is logged and
// overwritten by the next save.
func NewLedgerService(ctx context.Context, s store.Store, namespace string, logger *slog.Logger) (*LedgerService, error) {
	l := ledger.New()

	data, err := s.LoadBlob(ctx, namespace)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load ledger %q: %w", namespace, err)
	default:
		decoded, decodeErr := ledger.Decode(data)
		if decodeErr != nil {
			logger.Warn("discarding unreadable ledger", "namespace", namespace, "error", decodeErr)
		} else {
			l = decoded
		}
	}

	return &LedgerService{
		store:     s,
		namespace: namespace,
		logger:    logger,
		ledger:    l,
	}, nil
}

// Namespace is the blob key the ledger is stored under.
func (ls *LedgerService) Namespace() string {
	return ls.namespace
}

// Commit reconciles one completion. persist receives the encoded ledger and
// must store it; if it fails the in-memory ledger is left untouched.
func (ls *LedgerService) Commit(ctx context.Context, c ledger.Completion, now time.Time, persist PersistFunc) (string, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	staged := ls.ledger.Clone()
	key := staged.Apply(c, now)

	blob, err := staged.Encode()
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	if err := persist(ctx, key, blob); err != nil {
		return "", err
	}

	ls.ledger = staged
	return key, nil
}

// Reconcile applies a completion reported by a client that graded the quiz
// itself and saves the ledger on its own.
func (ls *LedgerService) Reconcile(ctx context.Context, c ledger.Completion, now time.Time) (string, error) {
	key, err := ls.Commit(ctx, c, now, func(ctx context.Context, _ string, blob []byte) error {
		return ls.store.SaveBlob(ctx, ls.namespace, blob)
	})
	if err != nil {
		return "", fmt.Errorf("save ledger: %w", err)
	}
	ls.logger.Info("ledger reconciled", "student", key, "review", c.Review, "wrong", len(c.Wrong))
	return key, nil
}

// ResolveKey maps a raw student name to its ledger key.
func (ls *LedgerService) ResolveKey(name string) string {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.ledger.ResolveKey(name)
}

// ReviewQuestions returns the student key and their outstanding questions.
func (ls *LedgerService) ReviewQuestions(name string) (string, []quiz.Question) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.ledger.ResolveKey(name), ls.ledger.ReviewQuestions(name)
}

// Records returns the student key and a copy of their records.
func (ls *LedgerService) Records(name string) (string, []ledger.MissedWordRecord) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.ledger.ResolveKey(name), ls.ledger.Records(name)
}

// Has reports whether the student has ever had a ledger entry.
func (ls *LedgerService) Has(name string) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.ledger.Has(name)
}

// StudentRecords is one student's slice of the ledger.
type StudentRecords struct {
	Key     string
	Records []ledger.MissedWordRecord
}

// All returns every student's records, ordered by key.
func (ls *LedgerService) All() []StudentRecords {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	students := ls.ledger.Students()
	out := make([]StudentRecords, 0, len(students))
	for _, key := range students {
		out = append(out, StudentRecords{Key: key, Records: ls.ledger.Records(key)})
	}
	return out
}

// OutstandingCounts returns the number of outstanding words per student.
func (ls *LedgerService) OutstandingCounts() map[string]int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.ledger.OutstandingCounts()
}
