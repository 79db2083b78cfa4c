package wordbank_test

import (
	"errors"
	"testing"

	"github.com/vocabquiz/backend/internal/domain/wordbank"
)

func TestNewWordBank(t *testing.T) {
	bank := wordbank.New("Unit 3", "A1")

	if bank.Name != "Unit 3" {
		t.Errorf("expected name %q, got %q", "Unit 3", bank.Name)
	}
	if bank.ClassName != "A1" {
		t.Errorf("expected class %q, got %q", "A1", bank.ClassName)
	}
	if bank.ID == "" {
		t.Error("expected non-empty ID")
	}
	if len(bank.Entries) != 0 {
		t.Errorf("expected empty bank, got %d entries", len(bank.Entries))
	}
}

func TestAddEntry_TrimsInput(t *testing.T) {
	bank := wordbank.New("Unit 3", "A1")

	e, err := bank.AddEntry("  orbit ", " the path of a planet ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Word != "orbit" || e.Meaning != "the path of a planet" {
		t.Errorf("unexpected entry %+v", e)
	}
	if len(bank.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(bank.Entries))
	}
}

func TestAddEntry_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		meaning string
		want    error
	}{
		{"empty word", "  ", "x", wordbank.ErrEmptyWord},
		{"empty meaning", "orbit", "", wordbank.ErrEmptyMeaning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := wordbank.New("Unit 3", "A1")
			_, err := bank.AddEntry(tt.word, tt.meaning)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(bank.Entries) != 0 {
				t.Error("expected no entries after failed add")
			}
		})
	}
}

func TestDistinctMeanings(t *testing.T) {
	bank := wordbank.New("Unit 3", "A1")
	bank.AddEntry("big", "large")
	bank.AddEntry("huge", "large")
	bank.AddEntry("tiny", "small")

	if got := bank.DistinctMeanings(); got != 2 {
		t.Errorf("expected 2 distinct meanings, got %d", got)
	}
}
