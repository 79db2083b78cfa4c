package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/domain/wordbank"
	"github.com/vocabquiz/backend/internal/store"
)

func newStore(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedBank(t *testing.T, s *store.SQLStore) *wordbank.WordBank {
	t.Helper()
	bank := wordbank.New("Space", "A1")
	for _, w := range [][2]string{{"orbit", "path"}, {"zenith", "highest point"}, {"comet", "icy body"}, {"nadir", "lowest point"}} {
		_, err := bank.AddEntry(w[0], w[1])
		require.NoError(t, err)
	}
	require.NoError(t, s.SaveBank(context.Background(), bank))
	return bank
}

func TestBanks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := seedBank(t, s)

	for _, e := range bank.Entries {
		assert.NotZero(t, e.ID, "expected store-assigned entry IDs")
	}

	got, err := s.GetBank(ctx, bank.ID)
	require.NoError(t, err)
	assert.Equal(t, "Space", got.Name)
	assert.Equal(t, "A1", got.ClassName)
	assert.Equal(t, bank.Entries, got.Entries)

	entry, err := s.AddEntry(ctx, bank.ID, wordbank.WordEntry{Word: "galaxy", Meaning: "star system"})
	require.NoError(t, err)
	assert.Greater(t, entry.ID, bank.Entries[3].ID)

	require.NoError(t, s.DeleteEntry(ctx, bank.ID, bank.Entries[0].ID))
	assert.ErrorIs(t, s.DeleteEntry(ctx, bank.ID, bank.Entries[0].ID), store.ErrNotFound)

	got, err = s.GetBank(ctx, bank.ID)
	require.NoError(t, err)
	assert.Len(t, got.Entries, 4)

	banks, err := s.ListBanks(ctx)
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, bank.ID, banks[0].ID)
	assert.Equal(t, 4, banks[0].EntryCount)

	require.NoError(t, s.DeleteBank(ctx, bank.ID))
	_, err = s.GetBank(ctx, bank.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBank(ctx, bank.ID), store.ErrNotFound)
}

func TestListBanks_EntryCounts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	full := seedBank(t, s)
	empty := wordbank.New("Animals", "B2")
	require.NoError(t, s.SaveBank(ctx, empty))

	banks, err := s.ListBanks(ctx)
	require.NoError(t, err)
	require.Len(t, banks, 2)

	byID := map[string]wordbank.Summary{}
	for _, b := range banks {
		byID[b.ID] = b
	}
	assert.Equal(t, 4, byID[full.ID].EntryCount)
	assert.Equal(t, "Space", byID[full.ID].Name)
	assert.Equal(t, 0, byID[empty.ID].EntryCount)
	assert.Equal(t, "B2", byID[empty.ID].ClassName)

	_, err = s.AddEntries(ctx, empty.ID, []wordbank.WordEntry{{Word: "otter", Meaning: "river mammal"}})
	require.NoError(t, err)
	banks, err = s.ListBanks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Animals", banks[0].Name)
	assert.Equal(t, 1, banks[0].EntryCount)
}

func TestAddEntry_UnknownBank(t *testing.T) {
	s := newStore(t)

	_, err := s.AddEntry(context.Background(), "missing", wordbank.WordEntry{Word: "w", Meaning: "m"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddEntries(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := seedBank(t, s)

	saved, err := s.AddEntries(ctx, bank.ID, []wordbank.WordEntry{
		{Word: "galaxy", Meaning: "star system"},
		{Word: "meteor", Meaning: "shooting star"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Less(t, saved[0].ID, saved[1].ID)

	got, err := s.GetBank(ctx, bank.ID)
	require.NoError(t, err)
	assert.Len(t, got.Entries, 6)

	_, err = s.AddEntries(ctx, "missing", []wordbank.WordEntry{{Word: "x", Meaning: "y"}})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQuizzes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := seedBank(t, s)

	limit := 90 * time.Second
	q, err := quiz.New(bank, quiz.Config{TimeLimit: &limit})
	require.NoError(t, err)
	require.NoError(t, s.SaveQuiz(ctx, q))

	got, err := s.GetQuiz(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Questions, got.Questions)
	assert.Equal(t, bank.ID, got.BankID)
	require.NotNil(t, got.TimeLimit)
	assert.Equal(t, limit, *got.TimeLimit)
	assert.False(t, got.Completed())
	assert.WithinDuration(t, q.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = s.GetQuiz(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteQuiz(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := seedBank(t, s)

	q, err := quiz.New(bank, quiz.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, s.SaveQuiz(ctx, q))

	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	g := q.Grade(nil)
	res := result.New(q, "Bob", "A1", g, 42, at)

	completion := store.QuizCompletion{
		QuizID:          q.ID,
		CompletedAt:     at,
		Result:          res,
		LedgerNamespace: "incorrectNote",
		LedgerBlob:      []byte(`{"version":1,"students":{}}`),
	}
	require.NoError(t, s.CompleteQuiz(ctx, completion))

	got, err := s.GetQuiz(ctx, q.ID)
	require.NoError(t, err)
	require.True(t, got.Completed())
	assert.True(t, got.CompletedAt.Equal(at))

	results, err := s.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, res.ID, results[0].ID)
	assert.Equal(t, "2026-10-17", results[0].Date)
	assert.Equal(t, 42, results[0].TimeTakenSeconds)
	assert.Equal(t, len(q.Questions), len(results[0].IncorrectQuestions))
	assert.True(t, results[0].Timestamp.Equal(at))

	blob, err := s.LoadBlob(ctx, "incorrectNote")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"students":{}}`, string(blob))

	// second completion is rejected and writes nothing
	completion.Result = result.New(q, "Bob", "A1", g, 1, at)
	completion.LedgerBlob = []byte(`{"version":1,"students":{"Bob":[]}}`)
	assert.ErrorIs(t, s.CompleteQuiz(ctx, completion), store.ErrAlreadyCompleted)

	results, err = s.ListResults(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	blob, err = s.LoadBlob(ctx, "incorrectNote")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"students":{}}`, string(blob))

	completion.QuizID = "missing"
	assert.ErrorIs(t, s.CompleteQuiz(ctx, completion), store.ErrNotFound)
}

func TestListResults_Chronological(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := seedBank(t, s)

	var ids []string
	for i := 0; i < 3; i++ {
		q, err := quiz.New(bank, quiz.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, s.SaveQuiz(ctx, q))
		res := result.New(q, "Bob", "A1", q.Grade(nil), i, time.Now().UTC())
		ids = append(ids, res.ID)
		require.NoError(t, s.CompleteQuiz(ctx, store.QuizCompletion{
			QuizID: q.ID, CompletedAt: time.Now(), Result: res,
			LedgerNamespace: "incorrectNote", LedgerBlob: []byte("{}"),
		}))
	}

	results, err := s.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, ids[i], r.ID)
	}
}

func TestBlobs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.LoadBlob(ctx, "incorrectNote")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SaveBlob(ctx, "incorrectNote", []byte("first")))
	require.NoError(t, s.SaveBlob(ctx, "incorrectNote", []byte("second")))

	data, err := s.LoadBlob(ctx, "incorrectNote")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := store.Open(context.Background(), store.Driver("mysql"), "")
	assert.Error(t, err)
}
