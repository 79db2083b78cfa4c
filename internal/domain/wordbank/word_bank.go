package wordbank

import (
	"errors"
	"strings"

	"github.com/vocabquiz/backend/internal/id"
)

var (
	ErrEmptyWord    = errors.New("word cannot be empty")
	ErrEmptyMeaning = errors.New("meaning cannot be empty")
)

// WordBank is a named list of vocabulary entries a class is tested on.
type WordBank struct {
	ID        string
	Name      string
	ClassName string
	Entries   []WordEntry
}

// Summary describes a bank in listings without loading its entries.
type Summary struct {
	ID         string
	Name       string
	ClassName  string
	EntryCount int
}

// WordEntry is one word with its meaning. ID is assigned by the store and
// doubles as the question id whenever the entry is put into a quiz.
type WordEntry struct {
	ID      int
	Word    string
	Meaning string
}

func New(name, className string) *WordBank {
	return &WordBank{
		ID:        id.GenerateID(),
		Name:      name,
		ClassName: className,
		Entries:   []WordEntry{},
	}
}

// NewEntry trims and validates a word/meaning pair. The returned entry has
// no ID until it is saved.
func NewEntry(word, meaning string) (WordEntry, error) {
	word = strings.TrimSpace(word)
	meaning = strings.TrimSpace(meaning)
	if word == "" {
		return WordEntry{}, ErrEmptyWord
	}
	if meaning == "" {
		return WordEntry{}, ErrEmptyMeaning
	}
	return WordEntry{Word: word, Meaning: meaning}, nil
}

// AddEntry validates and appends an entry to the bank.
func (b *WordBank) AddEntry(word, meaning string) (WordEntry, error) {
	e, err := NewEntry(word, meaning)
	if err != nil {
		return WordEntry{}, err
	}
	b.Entries = append(b.Entries, e)
	return e, nil
}

// DistinctMeanings counts the different meanings in the bank; a quiz needs
// at least four to build a full option set.
func (b *WordBank) DistinctMeanings() int {
	seen := make(map[string]struct{}, len(b.Entries))
	for _, e := range b.Entries {
		seen[e.Meaning] = struct{}{}
	}
	return len(seen)
}
