// File: internal/scanner/scanner_test.go
package scanner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/agentlens/api/schemas"
	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/registry"
)

// fakeResolver serves records from a map and fails for IDs it does not hold.
type fakeResolver struct {
	mu      sync.Mutex
	records map[uint64]*schemas.IdentityRecord
	calls   int
}

func (f *fakeResolver) Resolve(_ context.Context, ref registry.Ref) (*schemas.IdentityRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	rec, ok := f.records[ref.ID]
	if !ok {
		return nil, fmt.Errorf("identity %d gone", ref.ID)
	}
	return rec, nil
}

// scoreAuditor assigns each identity a fixed overall score and derives the
// risk level from it the same way the real auditor does.
type scoreAuditor struct {
	scores map[uint64]int
}

func (a *scoreAuditor) Audit(rec *schemas.IdentityRecord) *schemas.AuditReport {
	overall := a.scores[rec.ID]
	return &schemas.AuditReport{
		AgentID: rec.ID,
		Owner:   rec.Owner,
		Name:    rec.Name(),
		Overall: overall,
		Risk:    schemas.RiskLevelForScore(overall),
	}
}

func newTestScanner(t *testing.T, resolver registry.Resolver, auditor Auditor) *Scanner {
	t.Helper()
	cfg := config.ScanConfig{Concurrency: 3}
	return New(resolver, auditor, cfg, zaptest.NewLogger(t))
}

func refs(ids ...uint64) []registry.Ref {
	out := make([]registry.Ref, len(ids))
	for i, id := range ids {
		out[i] = registry.Ref{ID: id}
	}
	return out
}

func records(ids ...uint64) map[uint64]*schemas.IdentityRecord {
	out := make(map[uint64]*schemas.IdentityRecord, len(ids))
	for _, id := range ids {
		out[id] = &schemas.IdentityRecord{ID: id, Owner: fmt.Sprintf("0x%02x", id)}
	}
	return out
}

func TestScan_BucketsAndInvariant(t *testing.T) {
	defer goleak.VerifyNone(t)

	resolver := &fakeResolver{records: records(1, 2, 3, 4)}
	auditor := &scoreAuditor{scores: map[uint64]int{1: 92, 2: 60, 3: 30, 4: 75}}
	s := newTestScanner(t, resolver, auditor)

	report := s.Scan(context.Background(), refs(1, 2, 3, 4))

	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 2, report.Healthy)
	assert.Equal(t, 1, report.Warning)
	assert.Equal(t, 1, report.Critical)
	assert.Equal(t, report.Scanned, report.Healthy+report.Warning+report.Critical)
	assert.NotEmpty(t, report.ScanID)
	assert.False(t, report.StartedAt.IsZero())
}

func TestScan_SummariesKeepInputOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	resolver := &fakeResolver{records: records(1, 2, 3, 4, 5, 6, 7, 8)}
	auditor := &scoreAuditor{scores: map[uint64]int{1: 80, 2: 80, 3: 80, 4: 80, 5: 80, 6: 80, 7: 80, 8: 80}}
	s := newTestScanner(t, resolver, auditor)

	report := s.Scan(context.Background(), refs(8, 3, 5, 1, 7, 2, 6, 4))

	var got []uint64
	for _, sum := range report.Summaries {
		got = append(got, sum.AgentID)
	}
	assert.Equal(t, []uint64{8, 3, 5, 1, 7, 2, 6, 4}, got)
}

func TestScan_FailedResolutionIsIsolated(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Identity 2 is missing from the resolver: the middle of the batch
	// fails, the rest completes.
	resolver := &fakeResolver{records: records(1, 3)}
	auditor := &scoreAuditor{scores: map[uint64]int{1: 90, 3: 90}}
	s := newTestScanner(t, resolver, auditor)

	report := s.Scan(context.Background(), refs(1, 2, 3))

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, report.Scanned, report.Healthy+report.Warning+report.Critical)
	require.Len(t, report.Summaries, 2)
	assert.Equal(t, uint64(1), report.Summaries[0].AgentID)
	assert.Equal(t, uint64(3), report.Summaries[1].AgentID)
	assert.Equal(t, 3, resolver.calls)
}

func TestScan_EmptyBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTestScanner(t, &fakeResolver{}, &scoreAuditor{})
	report := s.Scan(context.Background(), nil)

	assert.Zero(t, report.Scanned)
	assert.Empty(t, report.Summaries)
	assert.NotEmpty(t, report.ScanID)
}

func TestScan_DistinctScanIDs(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTestScanner(t, &fakeResolver{records: records(1)}, &scoreAuditor{scores: map[uint64]int{1: 80}})

	first := s.Scan(context.Background(), refs(1))
	second := s.Scan(context.Background(), refs(1))
	assert.NotEqual(t, first.ScanID, second.ScanID)
}

func TestScan_DerivedViews(t *testing.T) {
	defer goleak.VerifyNone(t)

	resolver := &fakeResolver{records: records(1, 2, 3, 4, 5)}
	auditor := &scoreAuditor{scores: map[uint64]int{1: 95, 2: 60, 3: 40, 4: 60, 5: 20}}
	s := newTestScanner(t, resolver, auditor)

	report := s.Scan(context.Background(), refs(1, 2, 3, 4, 5))

	var flagged []uint64
	for _, sum := range report.Flagged() {
		flagged = append(flagged, sum.AgentID)
	}
	// HIGH first, then MEDIUM in original order; LOW excluded.
	assert.Equal(t, []uint64{3, 5, 2, 4}, flagged)

	var top []uint64
	for _, sum := range report.TopRanked(3) {
		top = append(top, sum.AgentID)
	}
	// Score descending, original order on the 60/60 tie.
	assert.Equal(t, []uint64{1, 2, 4}, top)
}
