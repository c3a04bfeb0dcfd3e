// File: internal/scanner/scanner.go

// Package scanner runs batch security scans: it resolves each referenced
// identity, audits it, and aggregates the outcomes into a ranked report.
// A single identity's failure never aborts the batch.
package scanner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/agentlens/api/schemas"
	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/metrics"
	"github.com/xkilldash9x/agentlens/internal/registry"
)

// Auditor is the per-identity audit the scanner fans out over. The audit
// package's Auditor satisfies it.
type Auditor interface {
	Audit(rec *schemas.IdentityRecord) *schemas.AuditReport
}

// Scanner fans a batch of identity references out over the resolver and
// auditor with bounded concurrency.
type Scanner struct {
	resolver registry.Resolver
	auditor  Auditor
	cfg      config.ScanConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMetrics attaches engine metrics. A nil value disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

// New creates a Scanner.
func New(resolver registry.Resolver, auditor Auditor, cfg config.ScanConfig, logger *zap.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		resolver: resolver,
		auditor:  auditor,
		cfg:      cfg,
		logger:   logger.Named("scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan audits every referenced identity and aggregates the results. Items
// run concurrently up to the configured limit; summaries come back in input
// order. An identity whose resolution fails is logged and skipped, so
// Scanned always equals Healthy + Warning + Critical.
func (s *Scanner) Scan(ctx context.Context, refs []registry.Ref) *schemas.ScanReport {
	report := &schemas.ScanReport{
		ScanID:    uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	s.logger.Info("Batch scan started",
		zap.String("scan_id", report.ScanID),
		zap.Int("identities", len(refs)),
	)

	// One slot per input; failed items leave their slot nil.
	slots := make([]*schemas.AuditReport, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, ref := range refs {
		g.Go(func() error {
			rec, err := s.resolver.Resolve(gctx, ref)
			if err != nil {
				s.metrics.RecordScanItemFailure()
				s.logger.Warn("Skipping identity, resolution failed",
					zap.String("scan_id", report.ScanID),
					zap.Uint64("agent_id", ref.ID),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = s.auditor.Audit(rec)
			return nil
		})
	}
	// Workers swallow their own failures; nothing aborts the batch.
	_ = g.Wait()

	for _, audit := range slots {
		if audit == nil {
			continue
		}
		report.Scanned++
		switch audit.Risk {
		case schemas.RiskLow:
			report.Healthy++
		case schemas.RiskMedium:
			report.Warning++
		case schemas.RiskHigh:
			report.Critical++
		}
		report.Summaries = append(report.Summaries, schemas.IdentitySummary{
			AgentID:  audit.AgentID,
			Name:     audit.Name,
			Owner:    audit.Owner,
			Score:    audit.Overall,
			Risk:     audit.Risk,
			Issues:   audit.CriticalCount(),
			Warnings: audit.WarningCount(),
		})
	}

	report.Duration = time.Since(report.StartedAt)
	s.metrics.RecordScanned(report.Scanned)
	s.logger.Info("Batch scan completed",
		zap.String("scan_id", report.ScanID),
		zap.Int("scanned", report.Scanned),
		zap.Int("healthy", report.Healthy),
		zap.Int("warning", report.Warning),
		zap.Int("critical", report.Critical),
		zap.Duration("duration", report.Duration),
	)
	return report
}

// concurrency returns the configured batch fan-out, defaulting to 1.
func (s *Scanner) concurrency() int {
	if s.cfg.Concurrency > 0 {
		return s.cfg.Concurrency
	}
	return 1
}
