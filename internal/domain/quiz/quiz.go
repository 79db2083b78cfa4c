package quiz

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/vocabquiz/backend/internal/domain/wordbank"
	"github.com/vocabquiz/backend/internal/id"
)

var (
	ErrNotEnoughEntries = errors.New("bank needs at least 4 distinct meanings to build a quiz")
	ErrEmptyReview      = errors.New("no outstanding words to review")
)

// Quiz is one administered test. Review quizzes are built from a student's
// ledger and carry no bank.
type Quiz struct {
	ID          string
	BankID      string
	StudentName string // only set for review quizzes
	Review      bool
	Questions   []Question
	TimeLimit   *time.Duration
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// New builds a quiz from a word bank. Entries are shuffled, cut to
// MaxQuestions, and each becomes a question whose options are the entry's
// meaning plus three distinct meanings of other entries.
func New(bank *wordbank.WordBank, config Config) (*Quiz, error) {
	if bank.DistinctMeanings() < OptionCount {
		return nil, ErrNotEnoughEntries
	}

	entries := shuffleEntries(bank.Entries)
	if config.MaxQuestions != nil && *config.MaxQuestions > 0 && *config.MaxQuestions < len(entries) {
		entries = entries[:*config.MaxQuestions]
	}

	meanings := distinctMeanings(bank.Entries)
	questions := make([]Question, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, buildQuestion(e, meanings))
	}

	return &Quiz{
		ID:        id.GenerateID(),
		BankID:    bank.ID,
		Questions: questions,
		TimeLimit: config.TimeLimit,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewReview wraps a student's outstanding ledger questions in a quiz. The
// questions are reused as stored, never regenerated.
func NewReview(studentKey string, questions []Question) (*Quiz, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyReview
	}
	return &Quiz{
		ID:          id.GenerateID(),
		StudentName: studentKey,
		Review:      true,
		Questions:   CloneQuestions(questions),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Completed reports whether the quiz has already been submitted.
func (q *Quiz) Completed() bool {
	return q.CompletedAt != nil
}

func buildQuestion(e wordbank.WordEntry, meanings []string) Question {
	distractors := make([]string, 0, len(meanings))
	for _, m := range meanings {
		if m != e.Meaning {
			distractors = append(distractors, m)
		}
	}
	rand.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	options := append([]string{e.Meaning}, distractors[:OptionCount-1]...)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, o := range options {
		if o == e.Meaning {
			correct = i
			break
		}
	}

	return Question{
		ID:                 e.ID,
		Word:               e.Word,
		Options:            options,
		CorrectAnswerIndex: correct,
	}
}

func distinctMeanings(entries []wordbank.WordEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Meaning]; ok {
			continue
		}
		seen[e.Meaning] = struct{}{}
		out = append(out, e.Meaning)
	}
	return out
}

// shuffleEntries returns a new slice with entries in random order.
func shuffleEntries(entries []wordbank.WordEntry) []wordbank.WordEntry {
	shuffled := make([]wordbank.WordEntry, len(entries))
	copy(shuffled, entries)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
