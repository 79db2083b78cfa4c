package quiz

import "time"

// Config holds optional constraints for a generated quiz.
type Config struct {
	MaxQuestions *int           // nil = every entry of the bank
	TimeLimit    *time.Duration // nil = untimed
}

// DefaultConfig returns a config with no constraints.
func DefaultConfig() Config {
	return Config{}
}
