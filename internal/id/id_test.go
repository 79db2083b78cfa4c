package id_test

import (
	"testing"

	"github.com/vocabquiz/backend/internal/id"
)

func TestGenerateID_Unique(t *testing.T) {
	a := id.GenerateID()
	b := id.GenerateID()

	if a == b {
		t.Error("expected different IDs")
	}
	if !id.Valid(a) {
		t.Errorf("expected %q to be a valid ID", a)
	}
}

func TestValid_RejectsGarbage(t *testing.T) {
	if id.Valid("not-an-id") {
		t.Error("expected garbage to be rejected")
	}
}
