// File: internal/probe/probe.go

// Package probe performs bounded-time liveness checks against the service
// endpoints an agent declares, and aggregates them into a per-identity
// verification result.
package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/agentlens/api/schemas"
	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/metrics"
)

// ErrorTimeout is the fixed error classification for probes that exceeded
// the configured deadline.
const ErrorTimeout = "Timeout"

// mcpInitializeBody is the minimal JSON-RPC-shaped initialization request
// sent to endpoints classified as MCP.
const mcpInitializeBody = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`

// maxDrainBytes bounds how much of a response body is read before closing,
// enough to let connections be reused without trusting remote sizes.
const maxDrainBytes = 4096

// Prober issues single liveness probes against declared endpoints. It is
// safe for concurrent use.
type Prober struct {
	cfg      config.ProbeConfig
	client   *http.Client
	limiter  *rate.Limiter
	resolver ProtocolResolver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithHTTPClient replaces the underlying HTTP client, primarily for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prober) { p.client = client }
}

// WithProtocolResolver replaces the protocol resolution strategy.
func WithProtocolResolver(r ProtocolResolver) Option {
	return func(p *Prober) { p.resolver = r }
}

// WithMetrics attaches engine metrics. A nil value disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Prober) { p.metrics = m }
}

// New creates a Prober from configuration. A zero rate limit disables the
// outbound limiter.
func New(cfg config.ProbeConfig, logger *zap.Logger, opts ...Option) *Prober {
	p := &Prober{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		resolver: DefaultResolver{},
		logger:   logger.Named("prober"),
	}
	if cfg.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe performs a single bounded-time liveness check and classifies the
// outcome. It never returns an error; failures are recorded in the result.
// Latency covers the request itself, from dispatch to terminal outcome, and
// is recorded even on failure.
func (p *Prober) Probe(ctx context.Context, rawURL string, protocol schemas.Protocol) schemas.EndpointCheckResult {
	result := schemas.EndpointCheckResult{
		URL:      rawURL,
		Protocol: protocol,
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := p.newRequest(reqCtx, rawURL, protocol)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	result.LatencyMS = elapsed.Milliseconds()

	if err != nil {
		if isTimeout(err) {
			result.Error = ErrorTimeout
			p.metrics.ObserveProbe(metrics.OutcomeTimeout, elapsed.Seconds())
		} else {
			result.Error = err.Error()
			p.metrics.ObserveProbe(metrics.OutcomeUnreachable, elapsed.Seconds())
		}
		p.logger.Debug("Endpoint probe failed",
			zap.String("url", rawURL),
			zap.String("protocol", string(protocol)),
			zap.String("error", result.Error),
		)
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	result.StatusCode = resp.StatusCode
	result.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 400

	outcome := metrics.OutcomeUnreachable
	if result.Reachable {
		outcome = metrics.OutcomeReachable
	}
	p.metrics.ObserveProbe(outcome, elapsed.Seconds())

	p.logger.Debug("Endpoint probe completed",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Bool("reachable", result.Reachable),
		zap.Int64("latency_ms", result.LatencyMS),
	)
	return result
}

// newRequest builds the per-protocol probe request: a JSON-RPC initialize
// POST for MCP endpoints, a plain GET for everything else.
func (p *Prober) newRequest(ctx context.Context, rawURL string, protocol schemas.Protocol) (*http.Request, error) {
	var req *http.Request
	var err error

	if protocol == schemas.ProtocolMCP {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(mcpInitializeBody))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	}
	if err != nil {
		return nil, err
	}
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}
	return req, nil
}

// isTimeout classifies deadline-style failures regardless of which layer
// surfaced them.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
