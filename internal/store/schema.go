package store

// Driver selects the database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS word_banks (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    class_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS word_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bank_id TEXT NOT NULL,
    word TEXT NOT NULL,
    meaning TEXT NOT NULL,
    FOREIGN KEY (bank_id) REFERENCES word_banks(id)
);

CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    bank_id TEXT NOT NULL DEFAULT '',
    student_name TEXT NOT NULL DEFAULT '',
    review BOOLEAN NOT NULL DEFAULT FALSE,
    questions_json TEXT NOT NULL,
    time_limit_sec INTEGER,
    created_at INTEGER NOT NULL,
    completed_at INTEGER
);

CREATE TABLE IF NOT EXISTS quiz_results (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    quiz_id TEXT NOT NULL,
    student_name TEXT NOT NULL,
    class_name TEXT NOT NULL,
    taken_on TEXT NOT NULL,
    score INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    time_taken_seconds INTEGER NOT NULL,
    taken_at INTEGER NOT NULL,
    review BOOLEAN NOT NULL DEFAULT FALSE,
    incorrect_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blobs (
    namespace TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS word_banks (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    class_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS word_entries (
    id SERIAL PRIMARY KEY,
    bank_id TEXT NOT NULL REFERENCES word_banks(id),
    word TEXT NOT NULL,
    meaning TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    bank_id TEXT NOT NULL DEFAULT '',
    student_name TEXT NOT NULL DEFAULT '',
    review BOOLEAN NOT NULL DEFAULT FALSE,
    questions_json TEXT NOT NULL,
    time_limit_sec BIGINT,
    created_at BIGINT NOT NULL,
    completed_at BIGINT
);

CREATE TABLE IF NOT EXISTS quiz_results (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    quiz_id TEXT NOT NULL,
    student_name TEXT NOT NULL,
    class_name TEXT NOT NULL,
    taken_on TEXT NOT NULL,
    score INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    time_taken_seconds INTEGER NOT NULL,
    taken_at BIGINT NOT NULL,
    review BOOLEAN NOT NULL DEFAULT FALSE,
    incorrect_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blobs (
    namespace TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);
`
