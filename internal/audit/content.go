// File: internal/audit/content.go
package audit

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// json serializes metadata for content screening. HTML escaping is off so
// that embedded markup stays literal, and map keys are sorted so identical
// inputs always produce identical text.
var json = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// checkContent screens the serialized metadata document for phishing lures
// and injected markup. An absent document has nothing to flag and scores
// 100.
func (a *Auditor) checkContent(rec *schemas.IdentityRecord) schemas.DimensionScore {
	d := schemas.DimensionScore{Score: 100}

	text := strings.ToLower(documentText(rec))
	if text == "" {
		return d
	}

	for _, pattern := range a.intel.MatchPhishing(text) {
		d.AddIssue(fmt.Sprintf("content matches phishing pattern %q", pattern))
	}
	if strings.Contains(text, "<script") || strings.Contains(text, "javascript:") {
		d.AddIssue("embedded script or javascript: URI creates an XSS risk")
	}
	if strings.Contains(text, "data:text/html") {
		d.AddIssue("data:text/html URI can smuggle a phishing page")
	}

	d.Score = schemas.ClampScore(100 - contentIssuePenalty*len(d.Issues))
	return d
}

// documentText returns the raw resolved document when available so that
// fields outside the typed schema are screened too, falling back to
// re-serializing the typed form.
func documentText(rec *schemas.IdentityRecord) string {
	if len(rec.RawMetadata) > 0 {
		return string(rec.RawMetadata)
	}
	if rec.Metadata == nil {
		return ""
	}
	b, err := json.Marshal(rec.Metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
