// File: internal/probe/verify.go
package probe

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// VerifyIdentity probes every declared service endpoint of the record and
// classifies the identity's overall liveness. Services without an endpoint
// string are skipped and not counted. Endpoints are probed with bounded
// concurrency; results are attributed back to declaration order so the
// output is stable for a given input.
func (p *Prober) VerifyIdentity(ctx context.Context, rec *schemas.IdentityRecord) *schemas.VerificationResult {
	result := &schemas.VerificationResult{
		Status: schemas.StatusNoEndpoints,
	}
	if rec != nil {
		result.AgentID = rec.ID
	}
	if rec == nil || rec.Metadata == nil || len(rec.Metadata.Services) == 0 {
		return result
	}

	var targets []schemas.AgentService
	for _, svc := range rec.Metadata.Services {
		if svc.Endpoint != "" {
			targets = append(targets, svc)
		}
	}
	if len(targets) == 0 {
		return result
	}

	result.Endpoints = make([]schemas.EndpointCheckResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())
	for i, svc := range targets {
		g.Go(func() error {
			result.Endpoints[i] = p.Probe(gctx, svc.Endpoint, p.resolver.Resolve(svc))
			return nil
		})
	}
	// Workers never return errors; a failed probe is a recorded outcome,
	// not a failure of the verification.
	_ = g.Wait()

	alive := 0
	for _, ep := range result.Endpoints {
		if ep.Reachable {
			alive++
		}
	}

	switch {
	case alive == len(targets):
		result.Status = schemas.StatusHealthy
		result.Score = 100
	case alive > 0:
		result.Status = schemas.StatusDegraded
		result.Score = int(math.Round(100 * float64(alive) / float64(len(targets))))
	default:
		result.Status = schemas.StatusOffline
		result.Score = 0
	}

	p.logger.Info("Identity verification completed",
		zap.Uint64("agent_id", result.AgentID),
		zap.String("status", string(result.Status)),
		zap.Int("score", result.Score),
		zap.Int("alive", alive),
		zap.Int("total", len(targets)),
	)
	return result
}

// concurrency returns the configured probe fan-out, defaulting to 1.
func (p *Prober) concurrency() int {
	if p.cfg.Concurrency > 0 {
		return p.cfg.Concurrency
	}
	return 1
}
