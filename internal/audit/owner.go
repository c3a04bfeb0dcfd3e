// File: internal/audit/owner.go
package audit

import (
	"fmt"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// checkOwner scores the owner address against the known-malicious address
// list. A listed owner is an immediate zero.
func (a *Auditor) checkOwner(owner string) schemas.DimensionScore {
	var d schemas.DimensionScore

	if owner != "" && a.intel.IsBlacklisted(owner) {
		d.AddIssue(fmt.Sprintf("owner address %s appears on a known-malicious address list", owner))
		d.Score = 0
		return d
	}

	d.Score = 100
	return d
}
