// internal/service/quiz.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/store"
)

var (
	ErrNothingToReview = errors.New("student has no words to review")
	ErrQuizCompleted   = errors.New("quiz already completed")
	ErrStudentRequired = errors.New("student name is required")
)

// CompleteRequest is a submitted answer sheet.
type CompleteRequest struct {
	QuizID           string
	StudentName      string
	ClassName        string
	Answers          []quiz.Answer
	TimeTakenSeconds int
}

// QuizService runs the quiz lifecycle: build, grade, record.
type QuizService struct {
	store      store.Store
	ledger     *LedgerService
	forwarding *ForwardingService
	logger     *slog.Logger
	now        func() time.Time
}

func NewQuizService(s store.Store, l *LedgerService, f *ForwardingService, logger *slog.Logger) *QuizService {
	return &QuizService{
		store:      s,
		ledger:     l,
		forwarding: f,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateQuiz builds and saves a normal quiz from a word bank.
func (qs *QuizService) CreateQuiz(ctx context.Context, bankID string, config quiz.Config) (*quiz.Quiz, error) {
	bank, err := qs.store.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	q, err := quiz.New(bank, config)
	if err != nil {
		return nil, err
	}
	if err := qs.store.SaveQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	return q, nil
}

// CreateReview builds a review quiz from the student's outstanding words.
// A student with nothing outstanding gets ErrNothingToReview.
func (qs *QuizService) CreateReview(ctx context.Context, studentName string) (*quiz.Quiz, error) {
	if strings.TrimSpace(studentName) == "" {
		return nil, ErrStudentRequired
	}

	key, questions := qs.ledger.ReviewQuestions(studentName)
	q, err := quiz.NewReview(key, questions)
	if errors.Is(err, quiz.ErrEmptyReview) {
		return nil, ErrNothingToReview
	}
	if err != nil {
		return nil, err
	}
	if err := qs.store.SaveQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("save review quiz: %w", err)
	}
	return q, nil
}

// GetQuiz loads a quiz by ID.
func (qs *QuizService) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	return qs.store.GetQuiz(ctx, id)
}

// Complete grades the answer sheet, then closes the quiz, appends the result
// and updates the ledger in one write. The result is forwarded afterwards.
// Review quizzes always count for the student they were built for.
func (qs *QuizService) Complete(ctx context.Context, req CompleteRequest) (result.QuizResult, error) {
	q, err := qs.store.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return result.QuizResult{}, err
	}
	if q.Completed() {
		return result.QuizResult{}, ErrQuizCompleted
	}

	name := req.StudentName
	if q.Review {
		name = q.StudentName
	}
	if strings.TrimSpace(name) == "" {
		return result.QuizResult{}, ErrStudentRequired
	}

	grading := q.Grade(req.Answers)
	now := qs.now()

	var res result.QuizResult
	completion := ledger.Completion{
		StudentName: name,
		Questions:   q.Questions,
		Wrong:       grading.Wrong,
		Review:      q.Review,
	}
	_, err = qs.ledger.Commit(ctx, completion, now, func(ctx context.Context, key string, blob []byte) error {
		res = result.New(q, key, req.ClassName, grading, req.TimeTakenSeconds, now)
		return qs.store.CompleteQuiz(ctx, store.QuizCompletion{
			QuizID:          q.ID,
			CompletedAt:     now,
			Result:          res,
			LedgerNamespace: qs.ledger.Namespace(),
			LedgerBlob:      blob,
		})
	})
	if errors.Is(err, store.ErrAlreadyCompleted) {
		return result.QuizResult{}, ErrQuizCompleted
	}
	if err != nil {
		return result.QuizResult{}, fmt.Errorf("complete quiz %s: %w", q.ID, err)
	}

	qs.logger.Info("quiz completed",
		"quiz_id", q.ID,
		"student", res.StudentName,
		"review", q.Review,
		"score", res.Score,
		"total", res.TotalQuestions,
	)

	if qs.forwarding != nil {
		qs.forwarding.Submit(ctx, res)
	}
	return res, nil
}
