// Package ledger tracks the words each student still gets wrong (the
// "incorrect note") and reconciles it after every quiz.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/vocabquiz/backend/internal/domain/quiz"
)

// MissedWordRecord is one outstanding word for one student.
type MissedWordRecord struct {
	Question       quiz.Question `json:"question"`
	WrongCount     int           `json:"wrongCount"`
	LastMissedDate time.Time     `json:"lastMissedDate"`
}

// Ledger maps a student to their outstanding records. Student identity is
// case and whitespace insensitive; the first-seen spelling is kept as the key.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	students map[string][]MissedWordRecord
	index    map[string]string // normalized name → canonical key
}

// Completion describes a finished quiz as seen by the ledger.
type Completion struct {
	StudentName string
	Questions   []quiz.Question
	Wrong       []quiz.Question
	Review      bool
}

func New() *Ledger {
	return &Ledger{
		students: make(map[string][]MissedWordRecord),
		index:    make(map[string]string),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveKey returns the stored key matching name, or the trimmed name when
// the student is unknown. It never inserts.
func (l *Ledger) ResolveKey(name string) string {
	if key, ok := l.index[normalize(name)]; ok {
		return key
	}
	return strings.TrimSpace(name)
}

func (l *Ledger) ensure(name string) string {
	key := l.ResolveKey(name)
	if _, ok := l.students[key]; !ok {
		l.students[key] = []MissedWordRecord{}
		l.index[normalize(key)] = key
	}
	return key
}

// Apply reconciles one completed quiz and returns the student key it touched.
func (l *Ledger) Apply(c Completion, now time.Time) string {
	if c.Review {
		return l.ReconcileReview(c.StudentName, c.Questions, c.Wrong)
	}
	return l.RecordMistakes(c.StudentName, c.Wrong, now)
}

// RecordMistakes merges the words missed in a normal quiz: a known word gets
// its count bumped and its date refreshed, a new word is appended with a
// count of one. The stored question snapshot of a known word is kept.
func (l *Ledger) RecordMistakes(name string, wrong []quiz.Question, now time.Time) string {
	if len(wrong) == 0 {
		return l.ResolveKey(name)
	}

	key := l.ensure(name)
	records := l.students[key]
	for _, q := range wrong {
		if i := indexOfWord(records, q.Word); i >= 0 {
			records[i].WrongCount++
			records[i].LastMissedDate = now
			continue
		}
		records = append(records, MissedWordRecord{
			Question:       quiz.CloneQuestions([]quiz.Question{q})[0],
			WrongCount:     1,
			LastMissedDate: now,
		})
	}
	l.students[key] = records
	return key
}

// ReconcileReview applies a review pass. Every record whose question was in
// the review set and not answered wrongly loses one count; records that
// reach zero are dropped. Words missed again keep their count.
func (l *Ledger) ReconcileReview(name string, reviewSet, wrong []quiz.Question) string {
	key := l.ResolveKey(name)
	records, ok := l.students[key]
	if !ok {
		return key
	}

	wrongIDs := make(map[int]struct{}, len(wrong))
	for _, q := range wrong {
		wrongIDs[q.ID] = struct{}{}
	}
	nowCorrect := make(map[int]struct{}, len(reviewSet))
	for _, q := range reviewSet {
		if _, missed := wrongIDs[q.ID]; !missed {
			nowCorrect[q.ID] = struct{}{}
		}
	}

	kept := make([]MissedWordRecord, 0, len(records))
	for _, r := range records {
		if _, ok := nowCorrect[r.Question.ID]; ok && r.WrongCount > 0 {
			r.WrongCount--
		}
		if r.WrongCount > 0 {
			kept = append(kept, r)
		}
	}
	l.students[key] = kept
	return key
}

// ReviewQuestions returns one question per outstanding word of the student,
// in ledger order.
func (l *Ledger) ReviewQuestions(name string) []quiz.Question {
	records := l.students[l.ResolveKey(name)]
	out := make([]quiz.Question, 0, len(records))
	for _, r := range records {
		out = append(out, r.Question)
	}
	return quiz.CloneQuestions(out)
}

// Records returns a copy of the student's outstanding records.
func (l *Ledger) Records(name string) []MissedWordRecord {
	return cloneRecords(l.students[l.ResolveKey(name)])
}

// Has reports whether the student has a ledger entry, even an empty one.
func (l *Ledger) Has(name string) bool {
	_, ok := l.index[normalize(name)]
	return ok
}

// OutstandingCounts returns the number of outstanding records per student.
func (l *Ledger) OutstandingCounts() map[string]int {
	counts := make(map[string]int, len(l.students))
	for k, records := range l.students {
		counts[k] = len(records)
	}
	return counts
}

// Students returns every student key, sorted.
func (l *Ledger) Students() []string {
	keys := make([]string, 0, len(l.students))
	for k := range l.students {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy, used to stage a reconciliation before it is
// persisted.
func (l *Ledger) Clone() *Ledger {
	c := New()
	for k, records := range l.students {
		c.students[k] = cloneRecords(records)
	}
	for n, k := range l.index {
		c.index[n] = k
	}
	return c
}

func fromMap(students map[string][]MissedWordRecord) *Ledger {
	l := New()
	keys := make([]string, 0, len(students))
	for k := range students {
		keys = append(keys, k)
	}
	// Sorted so that, if two stored keys collide after normalization, the
	// same one wins on every load.
	sort.Strings(keys)
	for _, k := range keys {
		records := students[k]
		if records == nil {
			records = []MissedWordRecord{}
		}
		l.students[k] = records
		if _, taken := l.index[normalize(k)]; !taken {
			l.index[normalize(k)] = k
		}
	}
	return l
}

func indexOfWord(records []MissedWordRecord, word string) int {
	for i, r := range records {
		if r.Question.Word == word {
			return i
		}
	}
	return -1
}

func cloneRecords(records []MissedWordRecord) []MissedWordRecord {
	out := make([]MissedWordRecord, len(records))
	for i, r := range records {
		r.Question = quiz.CloneQuestions([]quiz.Question{r.Question})[0]
		out[i] = r
	}
	return out
}
