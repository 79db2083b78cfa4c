package service

import (
	"context"
	"strings"

	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/store"
)

// DashboardService backs the teacher view.
type DashboardService struct {
	store  store.Store
	ledger *LedgerService
}

func NewDashboardService(s store.Store, l *LedgerService) *DashboardService {
	return &DashboardService{store: s, ledger: l}
}

// Students summarizes every student seen in results or the ledger.
func (ds *DashboardService) Students(ctx context.Context) ([]result.StudentSummary, error) {
	results, err := ds.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	return result.Summarize(results, ds.ledger.OutstandingCounts()), nil
}

// Results returns the whole history, oldest first.
func (ds *DashboardService) Results(ctx context.Context) ([]result.QuizResult, error) {
	return ds.store.ListResults(ctx)
}

// StudentResults returns one student's history, matching the name
// case-insensitively.
func (ds *DashboardService) StudentResults(ctx context.Context, name string) ([]result.QuizResult, error) {
	all, err := ds.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(name))
	out := []result.QuizResult{}
	for _, r := range all {
		if strings.ToLower(strings.TrimSpace(r.StudentName)) == want {
			out = append(out, r)
		}
	}
	return out, nil
}

// StudentLedger returns the student's key and outstanding records. ok is
// false for a student the ledger has never seen.
func (ds *DashboardService) StudentLedger(name string) (key string, records []ledger.MissedWordRecord, ok bool) {
	if !ds.ledger.Has(name) {
		return "", nil, false
	}
	key, records = ds.ledger.Records(name)
	return key, records, true
}

// Ledgers returns the whole mistake ledger, one entry per student.
func (ds *DashboardService) Ledgers() []StudentRecords {
	return ds.ledger.All()
}
