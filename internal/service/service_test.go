package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/domain/wordbank"
	"github.com/vocabquiz/backend/internal/service"
	"github.com/vocabquiz/backend/internal/store"
)

const namespace = "incorrectNote"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingForwarder struct {
	mu      sync.Mutex
	results []result.QuizResult
}

func (f *recordingForwarder) Forward(_ context.Context, r result.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return nil
}

type env struct {
	store      *store.SQLStore
	ledger     *service.LedgerService
	quizzes    *service.QuizService
	dashboard  *service.DashboardService
	forwarding *service.ForwardingService
	forwarded  *recordingForwarder
	bank       *wordbank.WordBank
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	bank := wordbank.New("Space", "A1")
	for _, w := range [][2]string{
		{"orbit", "path around a star"}, {"zenith", "highest point"}, {"comet", "icy body"},
		{"galaxy", "system of stars"}, {"meteor", "shooting star"},
	} {
		_, err := bank.AddEntry(w[0], w[1])
		require.NoError(t, err)
	}
	require.NoError(t, s.SaveBank(ctx, bank))

	ls, err := service.NewLedgerService(ctx, s, namespace, discard)
	require.NoError(t, err)

	fwd := &recordingForwarder{}
	fs := service.NewForwardingService(fwd, 1, discard)

	return &env{
		store:      s,
		ledger:     ls,
		quizzes:    service.NewQuizService(s, ls, fs, discard),
		dashboard:  service.NewDashboardService(s, ls),
		forwarding: fs,
		forwarded:  fwd,
		bank:       bank,
	}
}

// answersMissing answers every question correctly except the given words.
func answersMissing(q *quiz.Quiz, words ...string) []quiz.Answer {
	miss := make(map[string]bool)
	for _, w := range words {
		miss[w] = true
	}
	var answers []quiz.Answer
	for _, question := range q.Questions {
		sel := question.CorrectAnswerIndex
		if miss[question.Word] {
			sel = (sel + 1) % quiz.OptionCount
		}
		answers = append(answers, quiz.Answer{QuestionID: question.ID, SelectedIndex: sel})
	}
	return answers
}

func wordCounts(records []ledger.MissedWordRecord) map[string]int {
	out := map[string]int{}
	for _, r := range records {
		out[r.Question.Word] = r.WrongCount
	}
	return out
}

func TestQuizFlow_BobScenario(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	q, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, q.Questions, 5)

	res, err := e.quizzes.Complete(ctx, service.CompleteRequest{
		QuizID:           q.ID,
		StudentName:      "Bob",
		ClassName:        "A1",
		Answers:          answersMissing(q, "orbit", "zenith"),
		TimeTakenSeconds: 61,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 5, res.TotalQuestions)
	assert.Len(t, res.IncorrectQuestions, 2)

	_, records := e.ledger.Records("bob")
	assert.Equal(t, map[string]int{"orbit": 1, "zenith": 1}, wordCounts(records))

	review, err := e.quizzes.CreateReview(ctx, "BOB ")
	require.NoError(t, err)
	assert.True(t, review.Review)
	assert.Equal(t, "Bob", review.StudentName)
	require.Len(t, review.Questions, 2)

	_, err = e.quizzes.Complete(ctx, service.CompleteRequest{
		QuizID:  review.ID,
		Answers: answersMissing(review, "zenith"),
	})
	require.NoError(t, err)
	_, records = e.ledger.Records("Bob")
	assert.Equal(t, map[string]int{"zenith": 1}, wordCounts(records))

	review, err = e.quizzes.CreateReview(ctx, "Bob")
	require.NoError(t, err)
	_, err = e.quizzes.Complete(ctx, service.CompleteRequest{QuizID: review.ID, Answers: answersMissing(review)})
	require.NoError(t, err)
	_, records = e.ledger.Records("Bob")
	assert.Empty(t, records)

	_, err = e.quizzes.CreateReview(ctx, "Bob")
	assert.ErrorIs(t, err, service.ErrNothingToReview)

	students, err := e.dashboard.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Bob", students[0].StudentName)
	assert.Equal(t, 3, students[0].QuizzesTaken)
	assert.Equal(t, 0, students[0].Outstanding)

	e.forwarding.Close()
	assert.Len(t, e.forwarded.results, 3)
}

func TestComplete_Twice(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	q, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
	require.NoError(t, err)

	req := service.CompleteRequest{QuizID: q.ID, StudentName: "Bob", Answers: answersMissing(q, "orbit")}
	_, err = e.quizzes.Complete(ctx, req)
	require.NoError(t, err)

	_, err = e.quizzes.Complete(ctx, req)
	assert.ErrorIs(t, err, service.ErrQuizCompleted)

	_, records := e.ledger.Records("Bob")
	assert.Equal(t, map[string]int{"orbit": 1}, wordCounts(records))
}

func TestComplete_RequiresStudent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	q, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
	require.NoError(t, err)

	_, err = e.quizzes.Complete(ctx, service.CompleteRequest{QuizID: q.ID, StudentName: "  "})
	assert.ErrorIs(t, err, service.ErrStudentRequired)

	_, err = e.quizzes.Complete(ctx, service.CompleteRequest{QuizID: "missing", StudentName: "Bob"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateQuiz_UnknownBank(t *testing.T) {
	e := newEnv(t)

	_, err := e.quizzes.CreateQuiz(context.Background(), "missing", quiz.DefaultConfig())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAbandonedQuizLeavesLedgerAlone(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, e.ledger.OutstandingCounts())
	_, err = e.store.LoadBlob(ctx, namespace)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLedgerService_ReloadMatchesMemory(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	q, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
	require.NoError(t, err)
	_, err = e.quizzes.Complete(ctx, service.CompleteRequest{
		QuizID: q.ID, StudentName: "Alice", Answers: answersMissing(q, "comet", "galaxy", "meteor"),
	})
	require.NoError(t, err)

	reloaded, err := service.NewLedgerService(ctx, e.store, namespace, discard)
	require.NoError(t, err)

	_, want := e.ledger.Records("alice")
	key, got := reloaded.Records("ALICE")
	assert.Equal(t, "Alice", key)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Question, got[i].Question)
		assert.Equal(t, want[i].WrongCount, got[i].WrongCount)
		assert.True(t, want[i].LastMissedDate.Equal(got[i].LastMissedDate))
	}
}

func TestLedgerService_FailedPersistKeepsLedger(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	orbit := quiz.Question{ID: 1, Word: "orbit", Options: []string{"a", "b", "c", "d"}}

	boom := errors.New("disk full")
	_, err := e.ledger.Commit(ctx, ledger.Completion{StudentName: "Bob", Wrong: []quiz.Question{orbit}}, time.Now(),
		func(context.Context, string, []byte) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, e.ledger.OutstandingCounts())
}

func TestLedgerService_Reconcile(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	orbit := quiz.Question{ID: 1, Word: "orbit", Options: []string{"a", "b", "c", "d"}}

	key, err := e.ledger.Reconcile(ctx, ledger.Completion{
		StudentName: " Bob ", Questions: []quiz.Question{orbit}, Wrong: []quiz.Question{orbit},
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bob", key)

	blob, err := e.store.LoadBlob(ctx, namespace)
	require.NoError(t, err)
	stored, err := ledger.Decode(blob)
	require.NoError(t, err)
	assert.Len(t, stored.Records("bob"), 1)
}

func TestLedgerService_MalformedBlobFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.store.SaveBlob(ctx, namespace, []byte("{broken")))

	ls, err := service.NewLedgerService(ctx, e.store, namespace, discard)
	require.NoError(t, err)
	assert.Empty(t, ls.OutstandingCounts())
}

func TestDashboard_StudentResults(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	for _, name := range []string{"Bob", "alice", "bob"} {
		q, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
		require.NoError(t, err)
		_, err = e.quizzes.Complete(ctx, service.CompleteRequest{QuizID: q.ID, StudentName: name, Answers: answersMissing(q, "orbit")})
		require.NoError(t, err)
	}

	results, err := e.dashboard.StudentResults(ctx, "BOB")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "Bob", r.StudentName, "results are stored under the ledger key")
	}

	all, err := e.dashboard.Results(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDashboard_Ledgers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, _, ok := e.dashboard.StudentLedger("Bob")
	assert.False(t, ok)
	assert.Empty(t, e.dashboard.Ledgers())

	for _, name := range []string{"Bob", "alice"} {
		q, err := e.quizzes.CreateQuiz(ctx, e.bank.ID, quiz.DefaultConfig())
		require.NoError(t, err)
		_, err = e.quizzes.Complete(ctx, service.CompleteRequest{QuizID: q.ID, StudentName: name, Answers: answersMissing(q, "comet")})
		require.NoError(t, err)
	}

	key, records, ok := e.dashboard.StudentLedger(" BOB")
	require.True(t, ok)
	assert.Equal(t, "Bob", key)
	assert.Equal(t, map[string]int{"comet": 1}, wordCounts(records))

	ledgers := e.dashboard.Ledgers()
	require.Len(t, ledgers, 2)
	assert.Equal(t, "Bob", ledgers[0].Key)
	assert.Equal(t, "alice", ledgers[1].Key)
	assert.Len(t, ledgers[1].Records, 1)
}
