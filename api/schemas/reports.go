// File: api/schemas/reports.go
package schemas

import (
	"sort"
	"time"
)

// -- Verification --

// VerificationStatus is the aggregate liveness classification of an
// identity's declared endpoints.
type VerificationStatus string

// Constants for the closed set of verification statuses.
const (
	StatusHealthy     VerificationStatus = "healthy"      // Every probed endpoint responded.
	StatusDegraded    VerificationStatus = "degraded"     // Some endpoints responded, some did not.
	StatusOffline     VerificationStatus = "offline"      // No probed endpoint responded.
	StatusNoEndpoints VerificationStatus = "no-endpoints" // Nothing to probe after filtering.
)

// Known reports whether the status is one of the closed set of values.
func (s VerificationStatus) Known() bool {
	switch s {
	case StatusHealthy, StatusDegraded, StatusOffline, StatusNoEndpoints:
		return true
	}
	return false
}

// EndpointCheckResult is the outcome of probing a single service endpoint.
// Latency is recorded even on failure as elapsed wall time.
type EndpointCheckResult struct {
	URL       string   `json:"url"`
	Protocol  Protocol `json:"protocol"`
	Reachable bool     `json:"reachable"`
	// StatusCode is 0 when the endpoint was unreachable.
	StatusCode int   `json:"statusCode"`
	LatencyMS  int64 `json:"latencyMs"`
	// Error classifies the failure: "Timeout" on deadline, otherwise the
	// transport failure's message. Empty on success.
	Error string `json:"error,omitempty"`
}

// VerificationResult aggregates the endpoint probes for one identity.
type VerificationResult struct {
	AgentID   uint64                `json:"agentId"`
	Status    VerificationStatus    `json:"status"`
	Score     int                   `json:"score"`
	Endpoints []EndpointCheckResult `json:"endpoints"`
}

// -- Audit --

// RiskLevel is the coarse outcome bucket of a security audit.
type RiskLevel string

// Constants for the closed set of risk levels.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Known reports whether the risk level is one of the closed set of values.
func (r RiskLevel) Known() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// RiskLevelForScore maps an overall audit score to a risk level. It is a
// pure, monotone function: below 50 is HIGH, below 75 is MEDIUM, the rest
// is LOW.
func RiskLevelForScore(overall int) RiskLevel {
	switch {
	case overall < 50:
		return RiskHigh
	case overall < 75:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AuditReport is the full security audit for one identity.
type AuditReport struct {
	AgentID uint64 `json:"agentId"`
	Owner   string `json:"owner"`
	Name    string `json:"name,omitempty"`

	Schema     DimensionScore `json:"schema"`
	Endpoint   DimensionScore `json:"endpoint"`
	Content    DimensionScore `json:"content"`
	Reputation DimensionScore `json:"reputation"`

	Overall int       `json:"overall"`
	Risk    RiskLevel `json:"risk"`

	// Findings merges every dimension's criticals (in dimension order)
	// followed by every dimension's warnings in the same order.
	Findings []Finding `json:"findings"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// CriticalCount returns the number of critical findings in the merged list.
func (r *AuditReport) CriticalCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning findings in the merged list.
func (r *AuditReport) WarningCount() int {
	return len(r.Findings) - r.CriticalCount()
}

// -- Reputation --

// Tier is the coarse reputation outcome bucket.
type Tier string

// Constants for the closed set of reputation tiers, lowest first.
const (
	TierUnrated  Tier = "Unrated"
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// Known reports whether the tier is one of the closed set of values.
func (t Tier) Known() bool {
	switch t {
	case TierUnrated, TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

// TierForScore maps an overall reputation score to a tier. Pure and
// monotone: 90+ Platinum, 75+ Gold, 50+ Silver, 25+ Bronze, else Unrated.
func TierForScore(overall int) Tier {
	switch {
	case overall >= 90:
		return TierPlatinum
	case overall >= 75:
		return TierGold
	case overall >= 50:
		return TierSilver
	case overall >= 25:
		return TierBronze
	default:
		return TierUnrated
	}
}

// ReputationReport is the full composite reputation score for one identity.
type ReputationReport struct {
	AgentID uint64 `json:"agentId"`
	Owner   string `json:"owner"`
	Name    string `json:"name,omitempty"`

	Metadata DimensionScore `json:"metadata"`
	Health   DimensionScore `json:"health"`
	Age      DimensionScore `json:"age"`
	Activity DimensionScore `json:"activity"`

	Overall int  `json:"overall"`
	Tier    Tier `json:"tier"`

	// Signals echoes the chain signals the age and activity dimensions
	// were derived from, including whether each was actually known.
	Signals ChainSignals `json:"signals"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// -- Batch scan --

// IdentitySummary is the per-identity line item of a batch scan, kept in
// registry scan order.
type IdentitySummary struct {
	AgentID  uint64    `json:"agentId"`
	Name     string    `json:"name,omitempty"`
	Owner    string    `json:"owner"`
	Score    int       `json:"score"`
	Risk     RiskLevel `json:"risk"`
	Issues   int       `json:"issues"`
	Warnings int       `json:"warnings"`
}

// ScanReport aggregates a batch pass over many identities. The invariant
// Scanned == Healthy + Warning + Critical holds for every run; identities
// whose resolution or audit failed are not counted.
type ScanReport struct {
	ScanID string `json:"scanId"`

	Scanned  int `json:"scanned"`
	Healthy  int `json:"healthy"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`

	Summaries []IdentitySummary `json:"summaries"`

	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// riskRank orders risk levels for presentation, most severe first.
func riskRank(r RiskLevel) int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	default:
		return 3
	}
}

// Flagged returns the non-LOW summaries ordered HIGH before MEDIUM, stable
// by original scan order within a tier. The receiver is not modified.
func (r *ScanReport) Flagged() []IdentitySummary {
	flagged := make([]IdentitySummary, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		if s.Risk != RiskLow {
			flagged = append(flagged, s)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return riskRank(flagged[i].Risk) < riskRank(flagged[j].Risk)
	})
	return flagged
}

// TopRanked returns up to n summaries ordered by descending score, stable by
// original scan order on ties. The receiver is not modified.
func (r *ScanReport) TopRanked(n int) []IdentitySummary {
	ranked := make([]IdentitySummary, len(r.Summaries))
	copy(ranked, r.Summaries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
