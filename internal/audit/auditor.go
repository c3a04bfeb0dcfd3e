// File: internal/audit/auditor.go

// Package audit runs the multi-dimensional security audit over a resolved
// identity record: schema validity, endpoint security posture, content
// safety, and owner reputation. Every check is pure over its inputs and
// degrades to a documented fallback instead of failing.
package audit

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/agentlens/api/schemas"
	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/metrics"
	"github.com/xkilldash9x/agentlens/internal/threatintel"
)

// Score deductions per finding, by dimension.
const (
	schemaIssuePenalty     = 15
	schemaWarningPenalty   = 5
	endpointIssuePenalty   = 20
	endpointWarningPenalty = 10
	contentIssuePenalty    = 25
)

// Auditor runs the four security checks and composes their scores.
type Auditor struct {
	weights config.AuditWeights
	intel   threatintel.Intel
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithMetrics attaches engine metrics. A nil value disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Auditor) { a.metrics = m }
}

// New creates an Auditor with the given blend weights and threat intel
// source.
func New(weights config.AuditWeights, intel threatintel.Intel, logger *zap.Logger, opts ...Option) *Auditor {
	a := &Auditor{
		weights: weights,
		intel:   intel,
		logger:  logger.Named("auditor"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit runs all four checks over the record and composes the overall score,
// risk level, and merged finding list. Re-running over identical inputs
// produces identical output.
func (a *Auditor) Audit(rec *schemas.IdentityRecord) *schemas.AuditReport {
	report := &schemas.AuditReport{
		AgentID:     rec.ID,
		Owner:       rec.Owner,
		Name:        rec.Name(),
		GeneratedAt: time.Now().UTC(),
	}

	report.Schema = a.checkSchema(rec.Metadata)
	report.Endpoint = a.checkEndpoints(rec.Metadata)
	report.Content = a.checkContent(rec)
	report.Reputation = a.checkOwner(rec.Owner)

	report.Overall = schemas.ClampScore(int(math.Round(
		float64(report.Schema.Score)*a.weights.Schema +
			float64(report.Endpoint.Score)*a.weights.Endpoint +
			float64(report.Content.Score)*a.weights.Content +
			float64(report.Reputation.Score)*a.weights.Reputation,
	)))
	report.Risk = schemas.RiskLevelForScore(report.Overall)
	report.Findings = mergeFindings(report)

	a.metrics.RecordAudit(string(report.Risk))
	a.logger.Info("Identity audit completed",
		zap.Uint64("agent_id", rec.ID),
		zap.Int("overall", report.Overall),
		zap.String("risk", string(report.Risk)),
		zap.Int("findings", len(report.Findings)),
	)
	return report
}

// mergeFindings concatenates every dimension's critical issues in check
// order, then every dimension's warnings in the same order.
func mergeFindings(r *schemas.AuditReport) []schemas.Finding {
	dims := []struct {
		category schemas.FindingCategory
		dim      *schemas.DimensionScore
	}{
		{schemas.CategorySchema, &r.Schema},
		{schemas.CategoryEndpoint, &r.Endpoint},
		{schemas.CategoryContent, &r.Content},
		{schemas.CategoryReputation, &r.Reputation},
	}

	var findings []schemas.Finding
	for _, d := range dims {
		for _, msg := range d.dim.Issues {
			findings = append(findings, schemas.Finding{
				Category: d.category,
				Severity: schemas.SeverityCritical,
				Message:  msg,
			})
		}
	}
	for _, d := range dims {
		for _, msg := range d.dim.Warnings {
			findings = append(findings, schemas.Finding{
				Category: d.category,
				Severity: schemas.SeverityWarning,
				Message:  msg,
			})
		}
	}
	return findings
}
