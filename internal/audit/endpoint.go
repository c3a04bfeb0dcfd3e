// File: internal/audit/endpoint.go
package audit

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// checkEndpoints evaluates the security posture of every declared service
// URL. An identity with no services has nothing to fault here and scores
// 100.
func (a *Auditor) checkEndpoints(md *schemas.AgentMetadata) schemas.DimensionScore {
	d := schemas.DimensionScore{Score: 100}
	if md == nil || len(md.Services) == 0 {
		return d
	}

	for _, svc := range md.Services {
		if svc.Endpoint == "" {
			continue
		}

		lower := strings.ToLower(svc.Endpoint)
		host := hostOf(svc.Endpoint)

		if strings.HasPrefix(lower, "http://") && !isLocalHost(host) {
			d.AddIssue(fmt.Sprintf("endpoint %s uses plain HTTP; traffic can be intercepted", svc.Endpoint))
		}
		if entry, ok := a.intel.SuspiciousDomain(svc.Endpoint); ok {
			d.AddWarning(fmt.Sprintf("endpoint %s contains deny-listed domain %q", svc.Endpoint, entry))
		}
		if isIPv4Literal(host) {
			d.AddWarning(fmt.Sprintf("endpoint %s addresses a raw IPv4 host (%s)", svc.Endpoint, host))
		}
	}

	d.Score = schemas.ClampScore(100 - endpointIssuePenalty*len(d.Issues) - endpointWarningPenalty*len(d.Warnings))
	return d
}

// hostOf extracts the hostname of a URL, or "" when it cannot be parsed.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// isLocalHost reports whether the host is an explicit loopback or
// local-development name; plain HTTP to such hosts is not flagged.
func isLocalHost(host string) bool {
	if host == "" {
		return false
	}
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || host == "0.0.0.0" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// isIPv4Literal reports whether the host is a dotted-quad IPv4 literal.
func isIPv4Literal(host string) bool {
	if strings.Count(host, ".") != 3 {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() != nil
}
