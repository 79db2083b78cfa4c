package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the number of choices every question offers.
const OptionCount = 4

// Question is one multiple-choice item. It is immutable once generated; the
// ledger stores it verbatim so review quizzes show the same option order.
type Question struct {
	ID                 int      `json:"id"`
	Word               string   `json:"word"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

var ErrInvalidQuestion = errors.New("invalid question")

func (q Question) Validate() error {
	if strings.TrimSpace(q.Word) == "" {
		return fmt.Errorf("%w: empty word", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: %q has %d options, want %d", ErrInvalidQuestion, q.Word, len(q.Options), OptionCount)
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= OptionCount {
		return fmt.Errorf("%w: %q correct index %d out of range", ErrInvalidQuestion, q.Word, q.CorrectAnswerIndex)
	}
	return nil
}

// CorrectAnswer returns the text of the right option, or "" when the index
// does not point at one.
func (q Question) CorrectAnswer() string {
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswerIndex]
}

// clone copies the option slice so callers can't alias stored questions.
func (q Question) clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}
