// File: internal/reputation/scorer.go

// Package reputation computes composite reputation scores for resolved
// identity records: metadata completeness, endpoint health, registration
// age, and owner activity, blended into an overall score and tier.
package reputation

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/agentlens/api/schemas"
	"github.com/xkilldash9x/agentlens/internal/config"
)

// Metadata completeness rubric, additive and capped at 100.
const (
	pointsName            = 15
	pointsDescription     = 15
	pointsLongDescription = 10
	pointsActiveDeclared  = 10
	pointsX402Declared    = 10
	pointsHasService      = 20
	pointsMultiService    = 10
	pointsImage           = 5
	pointsVersion         = 5

	// longDescriptionChars is the description length that earns the
	// long-description bonus.
	longDescriptionChars = 50
)

// EndpointVerifier supplies the health dimension. The probe package's
// Prober satisfies it.
type EndpointVerifier interface {
	VerifyIdentity(ctx context.Context, rec *schemas.IdentityRecord) *schemas.VerificationResult
}

// Scorer blends the four reputation dimensions using configured weights.
type Scorer struct {
	cfg      config.ScoringConfig
	verifier EndpointVerifier
	logger   *zap.Logger
}

// New creates a Scorer. The verifier may be nil, in which case the health
// dimension scores 0 with an issue recorded.
func New(cfg config.ScoringConfig, verifier EndpointVerifier, logger *zap.Logger) *Scorer {
	return &Scorer{
		cfg:      cfg,
		verifier: verifier,
		logger:   logger.Named("reputation"),
	}
}

// Score computes the composite reputation of the record. The chain signals
// are externally supplied; a signal marked unknown scores 0 on its
// dimension with a warning, so a lookup failure stays distinguishable from
// a genuinely new or idle owner in the report.
func (s *Scorer) Score(ctx context.Context, rec *schemas.IdentityRecord, signals schemas.ChainSignals) *schemas.ReputationReport {
	report := &schemas.ReputationReport{
		AgentID:     rec.ID,
		Owner:       rec.Owner,
		Name:        rec.Name(),
		Signals:     signals,
		GeneratedAt: time.Now().UTC(),
	}

	report.Metadata = s.scoreMetadata(rec.Metadata)
	report.Health = s.scoreHealth(ctx, rec)
	report.Age = s.scoreAge(signals)
	report.Activity = s.scoreActivity(signals)

	w := s.cfg.Reputation
	report.Overall = schemas.ClampScore(int(math.Round(
		float64(report.Metadata.Score)*w.Metadata +
			float64(report.Health.Score)*w.Health +
			float64(report.Age.Score)*w.Age +
			float64(report.Activity.Score)*w.Activity,
	)))
	report.Tier = schemas.TierForScore(report.Overall)

	s.logger.Info("Reputation scored",
		zap.Uint64("agent_id", rec.ID),
		zap.Int("overall", report.Overall),
		zap.String("tier", string(report.Tier)),
	)
	return report
}

// scoreMetadata applies the additive completeness rubric. An absent
// document earns nothing.
func (s *Scorer) scoreMetadata(md *schemas.AgentMetadata) schemas.DimensionScore {
	var d schemas.DimensionScore
	if md == nil {
		d.AddIssue("metadata document is missing; completeness cannot be assessed")
		return d
	}

	points := 0
	if md.Name != "" {
		points += pointsName
	} else {
		d.AddWarning("no name declared")
	}
	if md.Description != "" {
		points += pointsDescription
		if len(md.Description) > longDescriptionChars {
			points += pointsLongDescription
		}
	} else {
		d.AddWarning("no description declared")
	}
	if md.Active != nil {
		points += pointsActiveDeclared
	}
	if md.X402Support != nil {
		points += pointsX402Declared
	}
	if len(md.Services) >= 1 {
		points += pointsHasService
	} else {
		d.AddWarning("no services declared")
	}
	if len(md.Services) > 1 {
		points += pointsMultiService
	}
	if md.Image != "" {
		points += pointsImage
	}
	if md.Version != "" {
		points += pointsVersion
	}

	d.Score = schemas.ClampScore(points)
	return d
}

// scoreHealth delegates to the endpoint verifier. Verification never scores
// above its aggregate liveness; any failure to verify is a 0, not an error.
func (s *Scorer) scoreHealth(ctx context.Context, rec *schemas.IdentityRecord) schemas.DimensionScore {
	var d schemas.DimensionScore
	if s.verifier == nil {
		d.AddIssue("endpoint verification unavailable")
		return d
	}

	result := s.verifier.VerifyIdentity(ctx, rec)
	if result == nil {
		d.AddIssue("endpoint verification failed")
		return d
	}

	d.Score = schemas.ClampScore(result.Score)
	switch result.Status {
	case schemas.StatusNoEndpoints:
		d.AddWarning("no probeable endpoints declared")
	case schemas.StatusOffline:
		d.AddIssue("all declared endpoints are unreachable")
	case schemas.StatusDegraded:
		d.AddWarning("some declared endpoints are unreachable")
	}
	return d
}

// scoreAge converts registration age in days to a score that saturates at
// the configured horizon.
func (s *Scorer) scoreAge(signals schemas.ChainSignals) schemas.DimensionScore {
	var d schemas.DimensionScore
	if !signals.AgeKnown {
		d.AddWarning("registration age unknown; scoring as new")
		return d
	}
	if signals.AgeDays < 0 {
		d.AddWarning("negative registration age; scoring as new")
		return d
	}

	scaled := math.Round(signals.AgeDays / s.cfg.AgeSaturationDays * 100)
	d.Score = int(math.Min(100, scaled))
	return d
}

// scoreActivity converts the owner transaction count to a log-scaled score.
// Zero or one transaction scores 0.
func (s *Scorer) scoreActivity(signals schemas.ChainSignals) schemas.DimensionScore {
	var d schemas.DimensionScore
	if !signals.TxKnown {
		d.AddWarning("owner transaction count unknown; scoring as idle")
		return d
	}

	tx := signals.TxCount
	if tx < 1 {
		tx = 1
	}
	scaled := math.Round(math.Log10(float64(tx)) * s.cfg.ActivityLogScale)
	d.Score = int(math.Min(100, scaled))
	if d.Score == 0 && signals.TxCount <= 1 {
		d.AddWarning(fmt.Sprintf("owner has %d recorded transactions", signals.TxCount))
	}
	return d
}
