// File: internal/probe/protocol.go
package probe

import (
	"strings"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// ProtocolResolver decides the wire protocol used to probe a declared
// service. Isolated behind an interface so a future resolver can consult
// richer signals than the substring heuristic.
type ProtocolResolver interface {
	Resolve(svc schemas.AgentService) schemas.Protocol
}

// InferProtocol is the best-effort substring heuristic: if either the
// service name or the endpoint contains "mcp" the protocol is mcp, else
// "a2a" maps to a2a, else http. It never fails.
func InferProtocol(name, endpoint string) schemas.Protocol {
	name = strings.ToLower(name)
	endpoint = strings.ToLower(endpoint)

	if strings.Contains(name, "mcp") || strings.Contains(endpoint, "mcp") {
		return schemas.ProtocolMCP
	}
	if strings.Contains(name, "a2a") || strings.Contains(endpoint, "a2a") {
		return schemas.ProtocolA2A
	}
	return schemas.ProtocolHTTP
}

// DefaultResolver honors an explicit, recognized protocol declared in the
// document and falls back to InferProtocol otherwise.
type DefaultResolver struct{}

// Resolve implements ProtocolResolver.
func (DefaultResolver) Resolve(svc schemas.AgentService) schemas.Protocol {
	if declared := schemas.Protocol(strings.ToLower(svc.Protocol)); declared.Known() {
		return declared
	}
	return InferProtocol(svc.Name, svc.Endpoint)
}
