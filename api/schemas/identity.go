// File: api/schemas/identity.go
package schemas

import "encoding/json"

// Protocol is the inferred wire protocol of a declared service endpoint.
// It is a best-effort classification and must never be trusted as
// authoritative.
type Protocol string

// Constants for the supported endpoint protocols.
const (
	ProtocolHTTP Protocol = "http" // Plain HTTP(S) endpoint.
	ProtocolA2A  Protocol = "a2a"  // Agent-to-Agent protocol endpoint.
	ProtocolMCP  Protocol = "mcp"  // Model Context Protocol endpoint.
)

// Known reports whether the protocol is one of the closed set of values.
// Consumers should treat unknown values as ProtocolHTTP for presentation.
func (p Protocol) Known() bool {
	switch p {
	case ProtocolHTTP, ProtocolA2A, ProtocolMCP:
		return true
	}
	return false
}

// AgentService is a single network contact point declared inside an agent's
// metadata document. Both fields are optional and entirely untrusted; the
// endpoint may be malformed, unreachable, or hostile.
type AgentService struct {
	Name     string `json:"name,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	// Protocol is the self-declared protocol, when the document carries one.
	// Inference falls back to a substring heuristic when it is absent or
	// not a recognized value.
	Protocol string `json:"protocol,omitempty"`
}

// AgentMetadata is the decoded metadata document of a registry entry.
// Every field is optional; absence is handled by the schema check, never by
// a crash downstream.
type AgentMetadata struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`
	Version     string         `json:"version,omitempty"`
	Services    []AgentService `json:"services,omitempty"`

	// Active and X402Support are pointers so that a field that is present
	// but false is distinguishable from a field that is absent. The
	// completeness rubric rewards presence regardless of value.
	Active      *bool `json:"active,omitempty"`
	X402Support *bool `json:"x402Support,omitempty"`
}

// IdentityRecord is a fully resolved registry entry handed to the engine by
// the identity-resolution collaborator. The engine trusts it as ground truth
// for a single assessment pass and never mutates it.
type IdentityRecord struct {
	// ID is the registry-assigned identifier, immutable once assigned.
	ID uint64 `json:"id"`

	// Owner is the address that controls the record.
	Owner string `json:"owner"`

	ChainID uint64 `json:"chainId,omitempty"`

	// Metadata is nil when the document is absent or could not be decoded.
	Metadata *AgentMetadata `json:"metadata,omitempty"`

	// RawMetadata preserves the document exactly as resolved, including
	// fields the typed struct does not model. The content-safety check
	// scans this form when it is available so that unmodeled fields are
	// not exempt from screening.
	RawMetadata json.RawMessage `json:"rawMetadata,omitempty"`
}

// Name returns the declared agent name, or the empty string when metadata is
// absent.
func (r *IdentityRecord) Name() string {
	if r == nil || r.Metadata == nil {
		return ""
	}
	return r.Metadata.Name
}

// ChainSignals carries the two externally supplied on-chain signals consumed
// by the reputation scorer. The Known flags make a lookup failure
// distinguishable from a genuine zero; the scorers still treat unknown as
// zero for scoring, but reports can surface the difference.
type ChainSignals struct {
	// AgeDays is the registration age in days, 0 when unknown.
	AgeDays float64 `json:"ageDays"`
	// AgeKnown is false when the collaborator could not determine the age.
	AgeKnown bool `json:"ageKnown"`

	// TxCount is the owner's transaction count, 0 when unknown.
	TxCount uint64 `json:"txCount"`
	// TxKnown is false when the collaborator could not determine the count.
	TxKnown bool `json:"txKnown"`
}
