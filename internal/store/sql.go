package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers "sqlite"

	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/domain/wordbank"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLStore persists everything in SQLite (default) or PostgreSQL. Queries are
// written with ? placeholders and rebound for the active driver.
type SQLStore struct {
	db *sqlx.DB
}

// Compile-time check: *SQLStore satisfies the Store interface.
var _ Store = (*SQLStore)(nil)

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite, "":
		drvName, schema = "sqlite", schemaSQLite
		if dsn == "" {
			dsn = "file:vocabquiz.db?_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/vocabquiz?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sqlx.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if drvName == "sqlite" {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// NewSQLite opens a SQLite database file.
func NewSQLite(dbPath string) (*SQLStore, error) {
	return Open(context.Background(), DriverSQLite, dbPath)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) q(query string) string {
	return s.db.Rebind(query)
}

func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Word banks
// ============================================================================

type bankRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	ClassName string `db:"class_name"`
}

type entryRow struct {
	ID      int    `db:"id"`
	Word    string `db:"word"`
	Meaning string `db:"meaning"`
}

func (s *SQLStore) SaveBank(ctx context.Context, bank *wordbank.WordBank) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			s.q("INSERT INTO word_banks (id, name, class_name) VALUES (?, ?, ?)"),
			bank.ID, bank.Name, bank.ClassName,
		); err != nil {
			return err
		}
		for i, e := range bank.Entries {
			saved, err := s.insertEntry(ctx, tx, bank.ID, e)
			if err != nil {
				return err
			}
			bank.Entries[i] = saved
		}
		return nil
	})
}

func (s *SQLStore) GetBank(ctx context.Context, id string) (*wordbank.WordBank, error) {
	var row bankRow
	err := s.db.GetContext(ctx, &row, s.q("SELECT id, name, class_name FROM word_banks WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entries []entryRow
	if err := s.db.SelectContext(ctx, &entries,
		s.q("SELECT id, word, meaning FROM word_entries WHERE bank_id = ? ORDER BY id"), id,
	); err != nil {
		return nil, err
	}

	bank := &wordbank.WordBank{
		ID:        row.ID,
		Name:      row.Name,
		ClassName: row.ClassName,
		Entries:   make([]wordbank.WordEntry, len(entries)),
	}
	for i, e := range entries {
		bank.Entries[i] = wordbank.WordEntry{ID: e.ID, Word: e.Word, Meaning: e.Meaning}
	}
	return bank, nil
}

type bankSummaryRow struct {
	bankRow
	EntryCount int `db:"entry_count"`
}

// ListBanks returns every bank with its entry count, ordered by name.
func (s *SQLStore) ListBanks(ctx context.Context) ([]wordbank.Summary, error) {
	var rows []bankSummaryRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT b.id, b.name, b.class_name, COUNT(e.id) AS entry_count
		 FROM word_banks b
		 LEFT JOIN word_entries e ON e.bank_id = b.id
		 GROUP BY b.id, b.name, b.class_name
		 ORDER BY b.name, b.id`,
	); err != nil {
		return nil, err
	}

	banks := make([]wordbank.Summary, len(rows))
	for i, r := range rows {
		banks[i] = wordbank.Summary{ID: r.ID, Name: r.Name, ClassName: r.ClassName, EntryCount: r.EntryCount}
	}
	return banks, nil
}

func (s *SQLStore) DeleteBank(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q("DELETE FROM word_entries WHERE bank_id = ?"), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q("DELETE FROM word_banks WHERE id = ?"), id)
		if err != nil {
			return err
		}
		return checkAffected(res)
	})
}

// AddEntry stores an entry and returns it with its assigned ID.
func (s *SQLStore) AddEntry(ctx context.Context, bankID string, entry wordbank.WordEntry) (wordbank.WordEntry, error) {
	var saved wordbank.WordEntry
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, s.q("SELECT COUNT(*) FROM word_banks WHERE id = ?"), bankID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		saved, err = s.insertEntry(ctx, tx, bankID, entry)
		return err
	})
	return saved, err
}

// AddEntries appends entries to a bank in one transaction and returns them
// with their assigned IDs.
func (s *SQLStore) AddEntries(ctx context.Context, bankID string, entries []wordbank.WordEntry) ([]wordbank.WordEntry, error) {
	saved := make([]wordbank.WordEntry, 0, len(entries))
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, s.q("SELECT COUNT(*) FROM word_banks WHERE id = ?"), bankID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		for _, e := range entries {
			stored, err := s.insertEntry(ctx, tx, bankID, e)
			if err != nil {
				return err
			}
			saved = append(saved, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SQLStore) insertEntry(ctx context.Context, tx *sqlx.Tx, bankID string, e wordbank.WordEntry) (wordbank.WordEntry, error) {
	err := tx.GetContext(ctx, &e.ID,
		s.q("INSERT INTO word_entries (bank_id, word, meaning) VALUES (?, ?, ?) RETURNING id"),
		bankID, e.Word, e.Meaning,
	)
	return e, err
}

func (s *SQLStore) DeleteEntry(ctx context.Context, bankID string, entryID int) error {
	res, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM word_entries WHERE id = ? AND bank_id = ?"), entryID, bankID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ============================================================================
// Quizzes
// ============================================================================

type quizRow struct {
	ID            string        `db:"id"`
	BankID        string        `db:"bank_id"`
	StudentName   string        `db:"student_name"`
	Review        bool          `db:"review"`
	QuestionsJSON string        `db:"questions_json"`
	TimeLimitSec  sql.NullInt64 `db:"time_limit_sec"`
	CreatedAt     int64         `db:"created_at"`
	CompletedAt   sql.NullInt64 `db:"completed_at"`
}

func (s *SQLStore) SaveQuiz(ctx context.Context, q *quiz.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	var limit sql.NullInt64
	if q.TimeLimit != nil {
		limit = sql.NullInt64{Int64: int64(q.TimeLimit.Seconds()), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		s.q(`INSERT INTO quizzes (id, bank_id, student_name, review, questions_json, time_limit_sec, created_at)
		     VALUES (?, ?, ?, ?, ?, ?, ?)`),
		q.ID, q.BankID, q.StudentName, q.Review, string(questions), limit, q.CreatedAt.UnixMilli(),
	)
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	var row quizRow
	err := s.db.GetContext(ctx, &row,
		s.q(`SELECT id, bank_id, student_name, review, questions_json, time_limit_sec, created_at, completed_at
		     FROM quizzes WHERE id = ?`), id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	q := &quiz.Quiz{
		ID:          row.ID,
		BankID:      row.BankID,
		StudentName: row.StudentName,
		Review:      row.Review,
		CreatedAt:   time.UnixMilli(row.CreatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.QuestionsJSON), &q.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of quiz %s: %w", id, err)
	}
	if row.TimeLimitSec.Valid {
		d := time.Duration(row.TimeLimitSec.Int64) * time.Second
		q.TimeLimit = &d
	}
	if row.CompletedAt.Valid {
		t := time.UnixMilli(row.CompletedAt.Int64).UTC()
		q.CompletedAt = &t
	}
	return q, nil
}

// CompleteQuiz closes the quiz, appends the result and replaces the ledger
// blob in one transaction.
func (s *SQLStore) CompleteQuiz(ctx context.Context, c QuizCompletion) error {
	incorrect, err := json.Marshal(c.Result.IncorrectQuestions)
	if err != nil {
		return fmt.Errorf("encode incorrect questions: %w", err)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			s.q("UPDATE quizzes SET completed_at = ? WHERE id = ? AND completed_at IS NULL"),
			c.CompletedAt.UnixMilli(), c.QuizID,
		)
		if err != nil {
			return err
		}
		if err := checkAffected(res); err != nil {
			var exists int
			if err := tx.GetContext(ctx, &exists, s.q("SELECT COUNT(*) FROM quizzes WHERE id = ?"), c.QuizID); err != nil {
				return err
			}
			if exists > 0 {
				return ErrAlreadyCompleted
			}
			return ErrNotFound
		}

		r := c.Result
		if _, err := tx.ExecContext(ctx,
			s.q(`INSERT INTO quiz_results (id, quiz_id, student_name, class_name, taken_on, score, total_questions,
			     time_taken_seconds, taken_at, review, incorrect_json)
			     VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			r.ID, r.QuizID, r.StudentName, r.ClassName, r.Date, r.Score, r.TotalQuestions,
			r.TimeTakenSeconds, r.Timestamp.UnixMilli(), r.Review, string(incorrect),
		); err != nil {
			return err
		}

		return s.saveBlob(ctx, tx, c.LedgerNamespace, c.LedgerBlob)
	})
}

// ============================================================================
// Results
// ============================================================================

type resultRow struct {
	ID               string `db:"id"`
	QuizID           string `db:"quiz_id"`
	StudentName      string `db:"student_name"`
	ClassName        string `db:"class_name"`
	Date             string `db:"taken_on"`
	Score            int    `db:"score"`
	TotalQuestions   int    `db:"total_questions"`
	TimeTakenSeconds int    `db:"time_taken_seconds"`
	Timestamp        int64  `db:"taken_at"`
	Review           bool   `db:"review"`
	IncorrectJSON    string `db:"incorrect_json"`
}

// ListResults returns the full history in insertion order.
func (s *SQLStore) ListResults(ctx context.Context) ([]result.QuizResult, error) {
	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, quiz_id, student_name, class_name, taken_on, score, total_questions,
		        time_taken_seconds, taken_at, review, incorrect_json
		 FROM quiz_results ORDER BY seq`,
	); err != nil {
		return nil, err
	}

	results := make([]result.QuizResult, len(rows))
	for i, r := range rows {
		results[i] = result.QuizResult{
			ID:               r.ID,
			QuizID:           r.QuizID,
			StudentName:      r.StudentName,
			ClassName:        r.ClassName,
			Date:             r.Date,
			Score:            r.Score,
			TotalQuestions:   r.TotalQuestions,
			TimeTakenSeconds: r.TimeTakenSeconds,
			Timestamp:        time.UnixMilli(r.Timestamp).UTC(),
			Review:           r.Review,
		}
		if err := json.Unmarshal([]byte(r.IncorrectJSON), &results[i].IncorrectQuestions); err != nil {
			return nil, fmt.Errorf("decode result %s: %w", r.ID, err)
		}
	}
	return results, nil
}

// ============================================================================
// Blobs
// ============================================================================

// LoadBlob returns the blob stored under namespace, or ErrNotFound.
func (s *SQLStore) LoadBlob(ctx context.Context, namespace string) ([]byte, error) {
	var data string
	err := s.db.GetContext(ctx, &data, s.q("SELECT data FROM blobs WHERE namespace = ?"), namespace)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (s *SQLStore) SaveBlob(ctx context.Context, namespace string, data []byte) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.saveBlob(ctx, tx, namespace, data)
	})
}

func (s *SQLStore) saveBlob(ctx context.Context, tx *sqlx.Tx, namespace string, data []byte) error {
	_, err := tx.ExecContext(ctx,
		s.q(`INSERT INTO blobs (namespace, data, updated_at) VALUES (?, ?, ?)
		     ON CONFLICT (namespace) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`),
		namespace, string(data), time.Now().UnixMilli(),
	)
	return err
}
