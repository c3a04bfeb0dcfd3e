// File: api/schemas/findings.go
package schemas

// -- Finding Schemas --

// Severity classifies a single audit finding. The values are lowercase to
// align with machine-readable report output.
type Severity string

// Constants defining the severity levels for findings.
const (
	SeverityCritical Severity = "critical" // A finding that materially endangers users.
	SeverityWarning  Severity = "warning"  // A finding that degrades trust but is not immediately dangerous.
)

// Known reports whether the severity is one of the closed set of values.
func (s Severity) Known() bool {
	return s == SeverityCritical || s == SeverityWarning
}

// FindingCategory names the audit dimension a finding originated from.
type FindingCategory string

// Constants for the four audit dimensions, in merge order.
const (
	CategorySchema     FindingCategory = "schema"
	CategoryEndpoint   FindingCategory = "endpoint"
	CategoryContent    FindingCategory = "content"
	CategoryReputation FindingCategory = "reputation"
)

// Finding is a single issue or warning produced by one audit check, tagged
// with its originating dimension.
type Finding struct {
	Category FindingCategory `json:"category"`
	Severity Severity        `json:"severity"`
	Message  string          `json:"message"`
}

// DimensionScore is the output of one audit or reputation check: a clamped
// 0-100 score plus the ordered findings that justify it. Issues and warnings
// are append-only within a single check invocation.
type DimensionScore struct {
	Score    int      `json:"score"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// AddIssue appends a critical issue to the dimension.
func (d *DimensionScore) AddIssue(msg string) {
	d.Issues = append(d.Issues, msg)
}

// AddWarning appends a warning to the dimension.
func (d *DimensionScore) AddWarning(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

// Findings expands the dimension's issues and warnings into tagged findings,
// criticals first, preserving append order.
func (d *DimensionScore) Findings(category FindingCategory) []Finding {
	out := make([]Finding, 0, len(d.Issues)+len(d.Warnings))
	for _, msg := range d.Issues {
		out = append(out, Finding{Category: category, Severity: SeverityCritical, Message: msg})
	}
	for _, msg := range d.Warnings {
		out = append(out, Finding{Category: category, Severity: SeverityWarning, Message: msg})
	}
	return out
}

// ClampScore bounds a raw score to the inclusive [0,100] range every
// DimensionScore must satisfy.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
