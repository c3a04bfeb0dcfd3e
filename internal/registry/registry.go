// File: internal/registry/registry.go

// Package registry defines how the engine reaches the identity-resolution
// and chain-activity collaborators, plus a file-backed implementation for
// offline batches and tests.
package registry

import (
	"context"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

// Ref names one identity to assess. Only the ID is required; the owner is
// carried when the caller already knows it so a resolution failure can
// still be attributed.
type Ref struct {
	ID    uint64 `json:"id"`
	Owner string `json:"owner,omitempty"`
}

// Resolver resolves a reference into a full identity record. A resolution
// failure is an error; the engine isolates it per item and never lets it
// abort a batch.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (*schemas.IdentityRecord, error)
}

// ActivitySource supplies the on-chain signals for a resolved record. An
// implementation that cannot determine a signal must leave its Known flag
// false rather than fabricate a zero.
type ActivitySource interface {
	Signals(ctx context.Context, rec *schemas.IdentityRecord) (schemas.ChainSignals, error)
}
