// File: internal/audit/schema.go
package audit

import (
	"fmt"
	"unicode/utf8"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// maxNameLength is the longest agent name that passes without a warning.
const maxNameLength = 200

// checkSchema validates the shape of the metadata document. An absent
// document short-circuits to a single critical issue and score 0.
func (a *Auditor) checkSchema(md *schemas.AgentMetadata) schemas.DimensionScore {
	var d schemas.DimensionScore

	if md == nil {
		d.AddIssue("metadata document is missing or could not be decoded")
		d.Score = 0
		return d
	}

	if md.Name == "" {
		d.AddIssue("metadata declares no name")
	}
	if md.Description == "" {
		d.AddWarning("metadata declares no description")
	}
	if utf8.RuneCountInString(md.Name) > maxNameLength {
		d.AddWarning(fmt.Sprintf("name exceeds %d characters", maxNameLength))
	}
	if md.Services == nil {
		d.AddWarning("no services declared; agent cannot be contacted")
	}
	for _, svc := range md.Services {
		if svc.Endpoint == "" {
			name := svc.Name
			if name == "" {
				name = "unnamed"
			}
			d.AddIssue(fmt.Sprintf("service %q declares no endpoint", name))
		}
	}

	d.Score = schemas.ClampScore(100 - schemaIssuePenalty*len(d.Issues) - schemaWarningPenalty*len(d.Warnings))
	return d
}
