package store

import (
	"context"
	"errors"
	"time"

	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/domain/wordbank"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("quiz already completed")
)

// QuizCompletion is everything that must be written together when a quiz is
// submitted: the quiz is closed, the result appended and the ledger blob
// replaced, or none of it happens.
type QuizCompletion struct {
	QuizID          string
	CompletedAt     time.Time
	Result          result.QuizResult
	LedgerNamespace string
	LedgerBlob      []byte
}

// Store is the persistence boundary used by services and handlers.
type Store interface {
	SaveBank(ctx context.Context, bank *wordbank.WordBank) error
	GetBank(ctx context.Context, id string) (*wordbank.WordBank, error)
	ListBanks(ctx context.Context) ([]wordbank.Summary, error)
	DeleteBank(ctx context.Context, id string) error
	AddEntry(ctx context.Context, bankID string, entry wordbank.WordEntry) (wordbank.WordEntry, error)
	AddEntries(ctx context.Context, bankID string, entries []wordbank.WordEntry) ([]wordbank.WordEntry, error)
	DeleteEntry(ctx context.Context, bankID string, entryID int) error

	SaveQuiz(ctx context.Context, q *quiz.Quiz) error
	GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error)
	CompleteQuiz(ctx context.Context, c QuizCompletion) error

	ListResults(ctx context.Context) ([]result.QuizResult, error)

	LoadBlob(ctx context.Context, namespace string) ([]byte, error)
	SaveBlob(ctx context.Context, namespace string, data []byte) error
}
