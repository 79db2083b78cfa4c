package result

import (
	"sort"
	"strings"
	"time"

	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/id"
)

// DateLayout is the calendar-date format of QuizResult.Date.
const DateLayout = "2006-01-02"

// QuizResult is the immutable record of one completed quiz. JSON field names
// are the ones the remote results endpoint expects.
type QuizResult struct {
	ID                 string          `json:"id"`
	QuizID             string          `json:"quizId"`
	StudentName        string          `json:"studentName"`
	ClassName          string          `json:"className"`
	Date               string          `json:"date"`
	Score              int             `json:"score"`
	TotalQuestions     int             `json:"totalQuestions"`
	TimeTakenSeconds   int             `json:"timeTakenSeconds"`
	Timestamp          time.Time       `json:"timestamp"`
	Review             bool            `json:"review"`
	IncorrectQuestions []quiz.Question `json:"incorrectQuestions"`
}

// New snapshots a graded quiz.
func New(q *quiz.Quiz, studentName, className string, g quiz.Grading, timeTakenSeconds int, at time.Time) QuizResult {
	if timeTakenSeconds < 0 {
		timeTakenSeconds = 0
	}
	return QuizResult{
		ID:                 id.GenerateID(),
		QuizID:             q.ID,
		StudentName:        studentName,
		ClassName:          strings.TrimSpace(className),
		Date:               at.Format(DateLayout),
		Score:              g.Score,
		TotalQuestions:     g.Total,
		TimeTakenSeconds:   timeTakenSeconds,
		Timestamp:          at,
		Review:             q.Review,
		IncorrectQuestions: quiz.CloneQuestions(g.Wrong),
	}
}

// Percentage returns the score as a whole percentage of the question count.
func (r QuizResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return r.Score * 100 / r.TotalQuestions
}

// StudentSummary aggregates a student's history for the teacher view.
type StudentSummary struct {
	StudentName    string
	ClassName      string
	QuizzesTaken   int
	AveragePercent int
	BestPercent    int
	LastQuizDate   string
	Outstanding    int
}

// Summarize groups results by student, matching names case-insensitively and
// keeping the first spelling seen. Results must be in chronological order.
// The outstanding map (keyed by canonical ledger key) fills Outstanding and
// adds students that have ledger entries but no results.
func Summarize(results []QuizResult, outstanding map[string]int) []StudentSummary {
	type acc struct {
		summary StudentSummary
		total   int
	}
	byName := make(map[string]*acc)
	order := []string{}

	get := func(name string) *acc {
		k := strings.ToLower(strings.TrimSpace(name))
		a, ok := byName[k]
		if !ok {
			a = &acc{summary: StudentSummary{StudentName: strings.TrimSpace(name)}}
			byName[k] = a
			order = append(order, k)
		}
		return a
	}

	for _, r := range results {
		a := get(r.StudentName)
		p := r.Percentage()
		a.summary.QuizzesTaken++
		a.total += p
		if p > a.summary.BestPercent {
			a.summary.BestPercent = p
		}
		a.summary.LastQuizDate = r.Date
		if r.ClassName != "" {
			a.summary.ClassName = r.ClassName
		}
	}
	for name, n := range outstanding {
		get(name).summary.Outstanding = n
	}

	out := make([]StudentSummary, 0, len(order))
	for _, k := range order {
		a := byName[k]
		if a.summary.QuizzesTaken > 0 {
			a.summary.AveragePercent = a.total / a.summary.QuizzesTaken
		}
		out = append(out, a.summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].StudentName) < strings.ToLower(out[j].StudentName)
	})
	return out
}
