// File: internal/probe/protocol_test.go
package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

func TestInferProtocol(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		svcName  string
		endpoint string
		want     schemas.Protocol
	}{
		{"mcp in name", "payments-MCP", "https://example.com/rpc", schemas.ProtocolMCP},
		{"mcp in endpoint", "gateway", "https://mcp.example.com", schemas.ProtocolMCP},
		{"a2a in name", "A2A bridge", "https://example.com", schemas.ProtocolA2A},
		{"a2a in endpoint", "bridge", "https://example.com/a2a/v1", schemas.ProtocolA2A},
		{"mcp wins over a2a", "a2a", "https://mcp.example.com", schemas.ProtocolMCP},
		{"default http", "api", "https://example.com/api", schemas.ProtocolHTTP},
		{"empty inputs", "", "", schemas.ProtocolHTTP},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, InferProtocol(tc.svcName, tc.endpoint))
		})
	}
}

func TestDefaultResolver_DeclaredProtocolWins(t *testing.T) {
	t.Parallel()

	r := DefaultResolver{}

	// A recognized declared protocol takes precedence over the heuristic.
	assert.Equal(t, schemas.ProtocolA2A, r.Resolve(schemas.AgentService{
		Name:     "mcp-gateway",
		Endpoint: "https://mcp.example.com",
		Protocol: "A2A",
	}))

	// Unrecognized declarations fall back to inference.
	assert.Equal(t, schemas.ProtocolMCP, r.Resolve(schemas.AgentService{
		Name:     "mcp-gateway",
		Endpoint: "https://example.com",
		Protocol: "grpc",
	}))

	assert.Equal(t, schemas.ProtocolHTTP, r.Resolve(schemas.AgentService{
		Name:     "plain",
		Endpoint: "https://example.com",
	}))
}
