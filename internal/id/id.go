package id

import "github.com/google/uuid"

// GenerateID returns a new random identifier for banks, quizzes and results.
func GenerateID() string {
	return uuid.NewString()
}

// Valid reports whether s looks like an identifier produced by GenerateID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
