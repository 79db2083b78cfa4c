package ledger_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/quiz"
)

func TestEncode_IsVersioned(t *testing.T) {
	l := ledger.New()
	l.RecordMistakes("Bob", []quiz.Question{question(1, "orbit")}, now)

	data, err := l.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw struct {
		Version  int                         `json:"version"`
		Students map[string][]map[string]any `json:"students"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Version != ledger.SchemaVersion {
		t.Errorf("expected version %d, got %d", ledger.SchemaVersion, raw.Version)
	}
	rec := raw.Students["Bob"][0]
	for _, field := range []string{"question", "wrongCount", "lastMissedDate"} {
		if _, ok := rec[field]; !ok {
			t.Errorf("expected field %q in persisted record", field)
		}
	}
}

func TestDecode_RoundTripThenReconcile(t *testing.T) {
	l := ledger.New()
	orbit, zenith := question(1, "orbit"), question(2, "zenith")
	l.RecordMistakes("Bob", []quiz.Question{orbit, zenith, zenith}, now)

	data, err := l.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reloaded, err := ledger.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	direct := l.Clone()
	direct.ReconcileReview("bob", []quiz.Question{orbit, zenith}, nil)
	reloaded.ReconcileReview("bob", []quiz.Question{orbit, zenith}, nil)

	if !reflect.DeepEqual(direct.Records("Bob"), reloaded.Records("Bob")) {
		t.Errorf("reloaded ledger diverged:\n direct   %+v\n reloaded %+v", direct.Records("Bob"), reloaded.Records("Bob"))
	}
	if !reflect.DeepEqual(direct.Students(), reloaded.Students()) {
		t.Errorf("expected same students, got %v and %v", direct.Students(), reloaded.Students())
	}
}

func TestDecode_Empty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		l, err := ledger.Decode([]byte(in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(l.Students()) != 0 {
			t.Errorf("expected empty ledger for %q", in)
		}
	}
}

func TestDecode_LegacyBlob(t *testing.T) {
	legacy := `{
		"Bob": [
			{"question": {"id": 3, "word": "orbit", "options": ["a","b","c","d"], "correctAnswerIndex": 2},
			 "wrongCount": 2, "lastMissedDate": "2024-05-01T10:00:00.000Z"}
		],
		"version": []
	}`

	l, err := ledger.Decode([]byte(legacy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := l.Students(); !reflect.DeepEqual(got, []string{"Bob", "version"}) {
		t.Errorf("expected legacy students migrated, got %v", got)
	}
	records := l.Records("BOB")
	if len(records) != 1 || records[0].WrongCount != 2 || records[0].Question.CorrectAnswerIndex != 2 {
		t.Errorf("unexpected migrated records %+v", records)
	}
	if records[0].LastMissedDate.Year() != 2024 {
		t.Errorf("expected legacy date parsed, got %v", records[0].LastMissedDate)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := ledger.Decode([]byte("{not json")); err == nil {
		t.Error("expected error for malformed blob")
	}
	if _, err := ledger.Decode([]byte(`{"Bob": "nope"}`)); err == nil {
		t.Error("expected error for wrong record shape")
	}
}

func TestDecode_FutureVersion(t *testing.T) {
	_, err := ledger.Decode([]byte(`{"version": 9, "students": {}}`))
	if !errors.Is(err, ledger.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var l ledger.Ledger
	in := `{"version": 1, "students": {"Alice": []}}`

	if err := json.NewDecoder(strings.NewReader(in)).Decode(&l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Has("alice") {
		t.Error("expected Alice to be resolvable")
	}
}
