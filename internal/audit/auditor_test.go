// File: internal/audit/auditor_test.go
package audit

import (
	stdjson "encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/agentlens/api/schemas"
	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/threatintel"
)

func newTestAuditor(t *testing.T) *Auditor {
	t.Helper()
	intel, err := threatintel.NewStatic(config.ThreatIntelConfig{})
	require.NoError(t, err)
	return New(config.NewDefaultConfig().Scoring.Audit, intel, zap.NewNop())
}

func cleanRecord() *schemas.IdentityRecord {
	return &schemas.IdentityRecord{
		ID:    1,
		Owner: "0x00000000000000000000000000000000000000aa",
		Metadata: &schemas.AgentMetadata{
			Name:        "weather-agent",
			Description: "Reports the weather on request.",
			Services: []schemas.AgentService{
				{Name: "api", Endpoint: "https://agent.example.com/api"},
			},
		},
	}
}

// -- Schema check --

func TestCheckSchema_MissingMetadataShortCircuits(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	d := a.checkSchema(nil)
	assert.Equal(t, 0, d.Score)
	require.Len(t, d.Issues, 1)
	assert.Empty(t, d.Warnings)
}

func TestCheckSchema_Deductions(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	cases := []struct {
		name         string
		md           *schemas.AgentMetadata
		wantScore    int
		wantIssues   int
		wantWarnings int
	}{
		{
			name:      "complete document",
			md:        cleanRecord().Metadata,
			wantScore: 100,
		},
		{
			name: "missing name is critical",
			md: &schemas.AgentMetadata{
				Description: "desc",
				Services:    []schemas.AgentService{{Endpoint: "https://x.example"}},
			},
			wantScore:  85,
			wantIssues: 1,
		},
		{
			name: "missing description is a warning",
			md: &schemas.AgentMetadata{
				Name:     "a",
				Services: []schemas.AgentService{{Endpoint: "https://x.example"}},
			},
			wantScore:    95,
			wantWarnings: 1,
		},
		{
			name: "oversized name is a warning",
			md: &schemas.AgentMetadata{
				Name:        strings.Repeat("x", 201),
				Description: "desc",
				Services:    []schemas.AgentService{{Endpoint: "https://x.example"}},
			},
			wantScore:    95,
			wantWarnings: 1,
		},
		{
			name:         "absent services list is a warning",
			md:           &schemas.AgentMetadata{Name: "a", Description: "d"},
			wantScore:    95,
			wantWarnings: 1,
		},
		{
			name: "empty services list passes",
			md: &schemas.AgentMetadata{
				Name:        "a",
				Description: "d",
				Services:    []schemas.AgentService{},
			},
			wantScore: 100,
		},
		{
			name: "service without endpoint is critical",
			md: &schemas.AgentMetadata{
				Name:        "a",
				Description: "d",
				Services:    []schemas.AgentService{{Name: "chat"}},
			},
			wantScore:  85,
			wantIssues: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := a.checkSchema(tc.md)
			assert.Equal(t, tc.wantScore, d.Score)
			assert.Len(t, d.Issues, tc.wantIssues)
			assert.Len(t, d.Warnings, tc.wantWarnings)
		})
	}
}

func TestCheckSchema_UnnamedServiceIsCalledOut(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	d := a.checkSchema(&schemas.AgentMetadata{
		Name:        "a",
		Description: "d",
		Services:    []schemas.AgentService{{}},
	})
	require.Len(t, d.Issues, 1)
	assert.Contains(t, d.Issues[0], `"unnamed"`)
}

func TestCheckSchema_ScoreNeverBelowZero(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	services := make([]schemas.AgentService, 10)
	d := a.checkSchema(&schemas.AgentMetadata{Services: services})
	assert.Equal(t, 0, d.Score)
}

// -- Endpoint security check --

func TestCheckEndpoints(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	cases := []struct {
		name         string
		md           *schemas.AgentMetadata
		wantScore    int
		wantIssues   int
		wantWarnings int
	}{
		{
			name:      "no services",
			md:        nil,
			wantScore: 100,
		},
		{
			name: "https endpoint is clean",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Endpoint: "https://agent.example.com"}},
			},
			wantScore: 100,
		},
		{
			name: "plain http is critical",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Endpoint: "http://agent.example.com"}},
			},
			wantScore:  80,
			wantIssues: 1,
		},
		{
			name: "plain http to loopback is tolerated",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Endpoint: "http://localhost:8080/api"}},
			},
			wantScore: 100,
		},
		{
			name: "deny-listed tunnel domain warns",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Endpoint: "https://abc.ngrok.io/agent"}},
			},
			wantScore:    90,
			wantWarnings: 1,
		},
		{
			name: "raw IPv4 host warns",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Endpoint: "https://203.0.113.9/agent"}},
			},
			wantScore:    90,
			wantWarnings: 1,
		},
		{
			name: "http plus IPv4 stacks both findings",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Endpoint: "http://203.0.113.9/agent"}},
			},
			wantScore:    70,
			wantIssues:   1,
			wantWarnings: 1,
		},
		{
			name: "endpoint-less services are skipped",
			md: &schemas.AgentMetadata{
				Services: []schemas.AgentService{{Name: "declared-only"}},
			},
			wantScore: 100,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := a.checkEndpoints(tc.md)
			assert.Equal(t, tc.wantScore, d.Score)
			assert.Len(t, d.Issues, tc.wantIssues)
			assert.Len(t, d.Warnings, tc.wantWarnings)
		})
	}
}

// -- Content safety check --

func TestCheckContent(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	t.Run("absent metadata scores 100", func(t *testing.T) {
		t.Parallel()
		d := a.checkContent(&schemas.IdentityRecord{ID: 1})
		assert.Equal(t, 100, d.Score)
		assert.Empty(t, d.Issues)
	})

	t.Run("clean document scores 100", func(t *testing.T) {
		t.Parallel()
		d := a.checkContent(cleanRecord())
		assert.Equal(t, 100, d.Score)
	})

	t.Run("phishing lure deducts 25 per match", func(t *testing.T) {
		t.Parallel()
		rec := cleanRecord()
		rec.Metadata.Description = "Connect your wallet NOW to claim your free tokens"
		d := a.checkContent(rec)
		// connect-wallet lure + claim lure.
		assert.Len(t, d.Issues, 2)
		assert.Equal(t, 50, d.Score)
	})

	t.Run("script tag is critical", func(t *testing.T) {
		t.Parallel()
		rec := cleanRecord()
		rec.Metadata.Description = "hello <script>alert(1)</script>"
		d := a.checkContent(rec)
		assert.Equal(t, 75, d.Score)
		require.Len(t, d.Issues, 1)
		assert.Contains(t, d.Issues[0], "XSS")
	})

	t.Run("data html URI is critical", func(t *testing.T) {
		t.Parallel()
		rec := cleanRecord()
		rec.Metadata.Image = "data:text/html;base64,PGh0bWw+"
		d := a.checkContent(rec)
		assert.Equal(t, 75, d.Score)
	})

	t.Run("raw document fields outside the schema are screened", func(t *testing.T) {
		t.Parallel()
		rec := cleanRecord()
		rec.RawMetadata = stdjson.RawMessage(`{"name":"weather-agent","promo":"free AIRDROP for early users"}`)
		d := a.checkContent(rec)
		require.Len(t, d.Issues, 1)
		assert.Contains(t, d.Issues[0], "airdrop")
	})

	t.Run("floor at zero", func(t *testing.T) {
		t.Parallel()
		rec := cleanRecord()
		rec.Metadata.Description = "urgent airdrop: connect your wallet, verify your wallet, claim your free tokens <script> javascript: data:text/html"
		d := a.checkContent(rec)
		assert.Equal(t, 0, d.Score)
	})
}

// -- Owner reputation check --

func TestCheckOwner(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	d := a.checkOwner("0x00000000000000000000000000000000000000aa")
	assert.Equal(t, 100, d.Score)
	assert.Empty(t, d.Issues)

	// Deny-list matching ignores case.
	d = a.checkOwner("0x8589427373D6D84E98730D7795D8F6F8731FDA16")
	assert.Equal(t, 0, d.Score)
	assert.Len(t, d.Issues, 1)
}

// -- Composition --

func TestAudit_MissingMetadataScenario(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	report := a.Audit(&schemas.IdentityRecord{
		ID:    42,
		Owner: "0x00000000000000000000000000000000000000aa",
	})

	assert.Equal(t, 0, report.Schema.Score)
	assert.Equal(t, 100, report.Endpoint.Score)
	assert.Equal(t, 100, report.Content.Score)
	assert.Equal(t, 100, report.Reputation.Score)
	// round(0*0.25 + 100*0.30 + 100*0.30 + 100*0.15) = 75
	assert.Equal(t, 75, report.Overall)
	assert.Equal(t, schemas.RiskLow, report.Risk)
	assert.Equal(t, 1, report.CriticalCount())
}

func TestAudit_BlacklistedOwnerCostsExactlyItsWeight(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	clean := a.Audit(cleanRecord())

	listed := cleanRecord()
	listed.Owner = "0x8589427373d6d84e98730d7795d8f6f8731fda16"
	dirty := a.Audit(listed)

	assert.Equal(t, 0, dirty.Reputation.Score)
	// reputation weight 0.15 over a 100-point dimension.
	assert.Equal(t, clean.Overall-15, dirty.Overall)
	assert.Equal(t, clean.CriticalCount()+1, dirty.CriticalCount())
}

func TestAudit_MergedFindingOrder(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	rec := &schemas.IdentityRecord{
		ID:    9,
		Owner: "0x8589427373d6d84e98730d7795d8f6f8731fda16",
		Metadata: &schemas.AgentMetadata{
			// Missing name: schema critical. Missing description: schema warning.
			Services: []schemas.AgentService{
				// Plain http: endpoint critical. ngrok: endpoint warning.
				{Name: "api", Endpoint: "http://abc.ngrok.io/agent"},
			},
		},
	}
	rec.RawMetadata = stdjson.RawMessage(`{"promo":"claim your free tokens"}`)

	report := a.Audit(rec)

	var got []schemas.FindingCategory
	var severities []schemas.Severity
	for _, f := range report.Findings {
		got = append(got, f.Category)
		severities = append(severities, f.Severity)
	}

	// All criticals in check order first, then all warnings in check order.
	assert.Equal(t, []schemas.FindingCategory{
		schemas.CategorySchema,
		schemas.CategoryEndpoint,
		schemas.CategoryContent,
		schemas.CategoryReputation,
		schemas.CategorySchema,
		schemas.CategoryEndpoint,
	}, got)
	assert.Equal(t, []schemas.Severity{
		schemas.SeverityCritical,
		schemas.SeverityCritical,
		schemas.SeverityCritical,
		schemas.SeverityCritical,
		schemas.SeverityWarning,
		schemas.SeverityWarning,
	}, severities)
}

func TestAudit_Idempotent(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	rec := cleanRecord()
	first := a.Audit(rec)
	second := a.Audit(rec)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Risk, second.Risk)
	assert.Equal(t, first.Findings, second.Findings)
}

func TestAudit_AllDimensionScoresInRange(t *testing.T) {
	t.Parallel()
	a := newTestAuditor(t)

	records := []*schemas.IdentityRecord{
		{ID: 1},
		cleanRecord(),
		{ID: 2, Owner: "0x8589427373d6d84e98730d7795d8f6f8731fda16", Metadata: &schemas.AgentMetadata{
			Description: "urgent: connect your wallet <script>",
			Services: []schemas.AgentService{
				{Endpoint: "http://203.0.113.9"},
				{Name: "ghost"},
				{Endpoint: "https://bit.ly/x"},
			},
		}},
	}

	for _, rec := range records {
		report := a.Audit(rec)
		for _, score := range []int{
			report.Schema.Score, report.Endpoint.Score,
			report.Content.Score, report.Reputation.Score, report.Overall,
		} {
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
