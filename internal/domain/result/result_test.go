package result_test

import (
	"testing"
	"time"

	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
)

func TestNew(t *testing.T) {
	at := time.Date(2026, 10, 1, 15, 4, 5, 0, time.UTC)
	q := &quiz.Quiz{ID: "quiz-1", Review: true}
	wrong := []quiz.Question{{ID: 1, Word: "orbit", Options: []string{"a", "b", "c", "d"}}}
	g := quiz.Grading{Score: 4, Total: 5, Wrong: wrong}

	r := result.New(q, "Bob", " B2 ", g, 93, at)

	if r.ID == "" {
		t.Error("expected non-empty ID")
	}
	if r.QuizID != "quiz-1" || !r.Review {
		t.Errorf("unexpected quiz link %+v", r)
	}
	if r.Date != "2026-10-01" {
		t.Errorf("expected date 2026-10-01, got %s", r.Date)
	}
	if r.ClassName != "B2" {
		t.Errorf("expected trimmed class, got %q", r.ClassName)
	}
	if r.Percentage() != 80 {
		t.Errorf("expected 80%%, got %d", r.Percentage())
	}

	wrong[0].Options[0] = "changed"
	if r.IncorrectQuestions[0].Options[0] != "a" {
		t.Error("expected result to own its incorrect questions")
	}
}

func TestNew_NegativeTimeClamped(t *testing.T) {
	r := result.New(&quiz.Quiz{}, "Bob", "", quiz.Grading{}, -5, time.Now())

	if r.TimeTakenSeconds != 0 {
		t.Errorf("expected 0, got %d", r.TimeTakenSeconds)
	}
	if r.Percentage() != 0 {
		t.Errorf("expected 0%% for empty quiz, got %d", r.Percentage())
	}
}

func TestSummarize(t *testing.T) {
	results := []result.QuizResult{
		{StudentName: "Bob", ClassName: "A1", Date: "2026-10-01", Score: 5, TotalQuestions: 10},
		{StudentName: "alice", ClassName: "A2", Date: "2026-10-02", Score: 9, TotalQuestions: 10},
		{StudentName: "BOB", ClassName: "A1", Date: "2026-10-03", Score: 10, TotalQuestions: 10},
	}

	got := result.Summarize(results, map[string]int{"Bob": 2, "Carol": 1})

	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d: %+v", len(got), got)
	}
	alice, bob, carol := got[0], got[1], got[2]

	if alice.StudentName != "alice" || alice.QuizzesTaken != 1 || alice.AveragePercent != 90 {
		t.Errorf("unexpected alice summary %+v", alice)
	}
	if bob.StudentName != "Bob" || bob.QuizzesTaken != 2 {
		t.Errorf("unexpected bob summary %+v", bob)
	}
	if bob.AveragePercent != 75 || bob.BestPercent != 100 || bob.LastQuizDate != "2026-10-03" {
		t.Errorf("unexpected bob stats %+v", bob)
	}
	if bob.Outstanding != 2 {
		t.Errorf("expected bob outstanding 2, got %d", bob.Outstanding)
	}
	if carol.StudentName != "Carol" || carol.QuizzesTaken != 0 || carol.Outstanding != 1 {
		t.Errorf("unexpected carol summary %+v", carol)
	}
}
