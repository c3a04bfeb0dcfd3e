// File: internal/reporting/text_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// TextReporter renders reports as human-readable terminal output.
type TextReporter struct {
	writer    io.WriteCloser
	topRanked int
}

// NewTextReporter creates a text reporter. It takes ownership of the writer.
func NewTextReporter(writer io.WriteCloser, topRanked int) *TextReporter {
	return &TextReporter{writer: writer, topRanked: topRanked}
}

// Write implements Reporter.
func (r *TextReporter) Write(report any) error {
	var b strings.Builder
	switch v := report.(type) {
	case *schemas.VerificationResult:
		renderVerification(&b, v)
	case *schemas.AuditReport:
		renderAudit(&b, v)
	case *schemas.ReputationReport:
		renderReputation(&b, v)
	case *schemas.ScanReport:
		renderScan(&b, v, r.topRanked)
	default:
		return fmt.Errorf("unsupported report type %T", report)
	}

	if _, err := io.WriteString(r.writer, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Close implements Reporter.
func (r *TextReporter) Close() error {
	return r.writer.Close()
}

func renderVerification(b *strings.Builder, v *schemas.VerificationResult) {
	fmt.Fprintf(b, "Identity #%d  status=%s  score=%d/100\n", v.AgentID, v.Status, v.Score)
	for _, ep := range v.Endpoints {
		mark := "DOWN"
		if ep.Reachable {
			mark = "UP"
		}
		fmt.Fprintf(b, "  [%-4s] %s (%s) %dms", mark, ep.URL, ep.Protocol, ep.LatencyMS)
		if ep.StatusCode != 0 {
			fmt.Fprintf(b, " http=%d", ep.StatusCode)
		}
		if ep.Error != "" {
			fmt.Fprintf(b, " error=%s", ep.Error)
		}
		b.WriteByte('\n')
	}
}

func renderAudit(b *strings.Builder, a *schemas.AuditReport) {
	fmt.Fprintf(b, "Security audit for identity #%d", a.AgentID)
	if a.Name != "" {
		fmt.Fprintf(b, " (%s)", a.Name)
	}
	b.WriteByte('\n')
	fmt.Fprintf(b, "  Overall: %d/100  risk=%s\n", a.Overall, presentRisk(a.Risk))
	fmt.Fprintf(b, "  Schema %d  Endpoint %d  Content %d  Reputation %d\n",
		a.Schema.Score, a.Endpoint.Score, a.Content.Score, a.Reputation.Score)
	for _, f := range a.Findings {
		fmt.Fprintf(b, "  [%s] %s: %s\n", strings.ToUpper(string(f.Severity)), f.Category, f.Message)
	}
}

func renderReputation(b *strings.Builder, rep *schemas.ReputationReport) {
	fmt.Fprintf(b, "Reputation for identity #%d", rep.AgentID)
	if rep.Name != "" {
		fmt.Fprintf(b, " (%s)", rep.Name)
	}
	b.WriteByte('\n')
	fmt.Fprintf(b, "  Overall: %d/100  tier=%s\n", rep.Overall, presentTier(rep.Tier))
	fmt.Fprintf(b, "  Metadata %d  Health %d  Age %d  Activity %d\n",
		rep.Metadata.Score, rep.Health.Score, rep.Age.Score, rep.Activity.Score)
	if !rep.Signals.AgeKnown {
		b.WriteString("  note: registration age unknown\n")
	}
	if !rep.Signals.TxKnown {
		b.WriteString("  note: owner activity unknown\n")
	}
}

func renderScan(b *strings.Builder, s *schemas.ScanReport, topRanked int) {
	fmt.Fprintf(b, "Scan %s: %d scanned (%d healthy / %d warning / %d critical) in %s\n",
		s.ScanID, s.Scanned, s.Healthy, s.Warning, s.Critical, s.Duration.Round(1e6))

	if flagged := s.Flagged(); len(flagged) > 0 {
		b.WriteString("\nFlagged identities:\n")
		for _, sum := range flagged {
			fmt.Fprintf(b, "  #%-6d %-24s %3d/100 %-6s %d issues, %d warnings\n",
				sum.AgentID, displayName(sum.Name), sum.Score, presentRisk(sum.Risk), sum.Issues, sum.Warnings)
		}
	}

	if top := s.TopRanked(topRanked); len(top) > 0 {
		fmt.Fprintf(b, "\nTop %d by score:\n", len(top))
		for i, sum := range top {
			fmt.Fprintf(b, "  %2d. #%-6d %-24s %3d/100 %s\n",
				i+1, sum.AgentID, displayName(sum.Name), sum.Score, presentRisk(sum.Risk))
		}
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

// presentRisk guards against out-of-set values reaching the terminal.
func presentRisk(r schemas.RiskLevel) string {
	if !r.Known() {
		return "UNKNOWN"
	}
	return string(r)
}

func presentTier(t schemas.Tier) string {
	if !t.Known() {
		return "Unknown"
	}
	return string(t)
}
