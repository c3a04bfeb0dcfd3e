// File: cmd/engine.go
package cmd

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/xkilldash9x/agentlens/internal/audit"
	"github.com/xkilldash9x/agentlens/internal/config"
	"github.com/xkilldash9x/agentlens/internal/metrics"
	"github.com/xkilldash9x/agentlens/internal/probe"
	"github.com/xkilldash9x/agentlens/internal/registry"
	"github.com/xkilldash9x/agentlens/internal/reporting"
	"github.com/xkilldash9x/agentlens/internal/reputation"
	"github.com/xkilldash9x/agentlens/internal/scanner"
	"github.com/xkilldash9x/agentlens/internal/threatintel"
)

// engineComponents holds the assessment pipeline assembled for one command
// invocation.
type engineComponents struct {
	Registry *registry.FileRegistry
	Prober   *probe.Prober
	Auditor  *audit.Auditor
	Scorer   *reputation.Scorer
	Scanner  *scanner.Scanner
}

// initializeEngineComponents wires the pipeline from the resolved config and
// the registry snapshot named by the command's input flag.
func initializeEngineComponents(cfg *config.Config, inputPath string, logger *zap.Logger) (*engineComponents, error) {
	reg, err := registry.OpenFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry snapshot: %w", err)
	}

	intel, err := threatintel.NewStatic(cfg.ThreatIntel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize threat intel: %w", err)
	}

	m := metrics.New()
	prober := probe.New(cfg.Probe, logger, probe.WithMetrics(m))
	auditor := audit.New(cfg.Scoring.Audit, intel, logger, audit.WithMetrics(m))

	return &engineComponents{
		Registry: reg,
		Prober:   prober,
		Auditor:  auditor,
		Scorer:   reputation.New(cfg.Scoring, prober, logger),
		Scanner:  scanner.New(reg, auditor, cfg.Scan, logger, scanner.WithMetrics(m)),
	}, nil
}

// newReporter builds the output reporter from the resolved scan output
// settings.
func newReporter(cfg *config.Config) (reporting.Reporter, error) {
	return reporting.New(cfg.Scan.Format, cfg.Scan.Output, reporting.WithTopRanked(cfg.Scan.Top))
}

// parseAgentID parses a positive decimal identity ID argument.
func parseAgentID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid identity id %q: expected a positive integer", arg)
	}
	return id, nil
}
