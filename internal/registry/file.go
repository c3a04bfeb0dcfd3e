// File: internal/registry/file.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

var fileJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// fileEntry is one identity in a snapshot file. Metadata stays raw until
// decode so the original document survives for content screening, and the
// chain signals are optional per entry.
type fileEntry struct {
	ID       uint64          `json:"id"`
	Owner    string          `json:"owner"`
	ChainID  uint64          `json:"chainId,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`

	AgeDays *float64 `json:"ageDays,omitempty"`
	TxCount *uint64  `json:"txCount,omitempty"`
}

// snapshot is the top-level shape of a registry snapshot file.
type snapshot struct {
	Identities []fileEntry `json:"identities"`
}

// FileRegistry serves identity records and chain signals from a JSON
// snapshot file. It implements both Resolver and ActivitySource and is the
// input source for offline batch scans.
type FileRegistry struct {
	order   []Ref
	records map[uint64]*schemas.IdentityRecord
	signals map[uint64]schemas.ChainSignals
}

// OpenFile loads a snapshot file. Entries with a duplicate or zero ID are
// rejected so a scan cannot silently double-count.
func OpenFile(path string) (*FileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry snapshot: %w", err)
	}
	return parseSnapshot(data)
}

func parseSnapshot(data []byte) (*FileRegistry, error) {
	var snap snapshot
	if err := fileJSON.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding registry snapshot: %w", err)
	}

	r := &FileRegistry{
		records: make(map[uint64]*schemas.IdentityRecord, len(snap.Identities)),
		signals: make(map[uint64]schemas.ChainSignals, len(snap.Identities)),
	}

	for i, entry := range snap.Identities {
		if entry.ID == 0 {
			return nil, fmt.Errorf("snapshot entry %d has no id", i)
		}
		if _, exists := r.records[entry.ID]; exists {
			return nil, fmt.Errorf("snapshot entry %d duplicates id %d", i, entry.ID)
		}

		rec := &schemas.IdentityRecord{
			ID:      entry.ID,
			Owner:   entry.Owner,
			ChainID: entry.ChainID,
		}
		if len(entry.Metadata) > 0 && string(entry.Metadata) != "null" {
			var md schemas.AgentMetadata
			if err := fileJSON.Unmarshal(entry.Metadata, &md); err == nil {
				rec.Metadata = &md
			}
			// An undecodable document still reaches content screening raw.
			rec.RawMetadata = entry.Metadata
		}

		var sig schemas.ChainSignals
		if entry.AgeDays != nil {
			sig.AgeDays = *entry.AgeDays
			sig.AgeKnown = true
		}
		if entry.TxCount != nil {
			sig.TxCount = *entry.TxCount
			sig.TxKnown = true
		}

		r.order = append(r.order, Ref{ID: entry.ID, Owner: entry.Owner})
		r.records[entry.ID] = rec
		r.signals[entry.ID] = sig
	}
	return r, nil
}

// Refs returns every identity in the snapshot, in file order.
func (r *FileRegistry) Refs() []Ref {
	out := make([]Ref, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve implements Resolver.
func (r *FileRegistry) Resolve(ctx context.Context, ref Ref) (*schemas.IdentityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := r.records[ref.ID]
	if !ok {
		return nil, fmt.Errorf("identity %d not present in snapshot", ref.ID)
	}
	return rec, nil
}

// Signals implements ActivitySource. A snapshot entry that omits a signal
// yields it with the Known flag unset.
func (r *FileRegistry) Signals(ctx context.Context, rec *schemas.IdentityRecord) (schemas.ChainSignals, error) {
	if err := ctx.Err(); err != nil {
		return schemas.ChainSignals{}, err
	}
	if rec == nil {
		return schemas.ChainSignals{}, fmt.Errorf("no record supplied")
	}
	sig, ok := r.signals[rec.ID]
	if !ok {
		return schemas.ChainSignals{}, fmt.Errorf("identity %d not present in snapshot", rec.ID)
	}
	return sig, nil
}
