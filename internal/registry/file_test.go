// File: internal/registry/file_test.go
package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/agentlens/api/schemas"
)

const sampleSnapshot = `{
  "identities": [
    {
      "id": 3,
      "owner": "0xaaa",
      "chainId": 8453,
      "metadata": {
        "name": "first-agent",
        "description": "does things",
        "services": [{"name": "api", "endpoint": "https://a.example"}],
        "trustModels": ["reputation"]
      },
      "ageDays": 120,
      "txCount": 900
    },
    {"id": 5, "owner": "0xbbb", "metadata": null},
    {"id": 2, "owner": "0xccc", "txCount": 0}
  ]
}`

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestOpenFile(t *testing.T) {
	t.Parallel()
	reg, err := OpenFile(writeSnapshot(t, sampleSnapshot))
	require.NoError(t, err)

	// Refs preserve file order, not ID order.
	assert.Equal(t, []Ref{{ID: 3, Owner: "0xaaa"}, {ID: 5, Owner: "0xbbb"}, {ID: 2, Owner: "0xccc"}}, reg.Refs())
}

func TestFileRegistry_Resolve(t *testing.T) {
	t.Parallel()
	reg, err := OpenFile(writeSnapshot(t, sampleSnapshot))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("full record", func(t *testing.T) {
		t.Parallel()
		rec, err := reg.Resolve(ctx, Ref{ID: 3})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), rec.ID)
		assert.Equal(t, uint64(8453), rec.ChainID)
		require.NotNil(t, rec.Metadata)
		assert.Equal(t, "first-agent", rec.Metadata.Name)
		// Unmodeled fields survive in the raw document.
		assert.Contains(t, string(rec.RawMetadata), "trustModels")
	})

	t.Run("null metadata stays nil", func(t *testing.T) {
		t.Parallel()
		rec, err := reg.Resolve(ctx, Ref{ID: 5})
		require.NoError(t, err)
		assert.Nil(t, rec.Metadata)
		assert.Empty(t, rec.RawMetadata)
	})

	t.Run("unknown id errors", func(t *testing.T) {
		t.Parallel()
		_, err := reg.Resolve(ctx, Ref{ID: 99})
		assert.Error(t, err)
	})

	t.Run("cancelled context errors", func(t *testing.T) {
		t.Parallel()
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := reg.Resolve(cancelled, Ref{ID: 3})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileRegistry_Signals(t *testing.T) {
	t.Parallel()
	reg, err := OpenFile(writeSnapshot(t, sampleSnapshot))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("both signals known", func(t *testing.T) {
		t.Parallel()
		sig, err := reg.Signals(ctx, &schemas.IdentityRecord{ID: 3})
		require.NoError(t, err)
		assert.Equal(t, schemas.ChainSignals{AgeDays: 120, AgeKnown: true, TxCount: 900, TxKnown: true}, sig)
	})

	t.Run("omitted signal is unknown, present zero is known", func(t *testing.T) {
		t.Parallel()
		sig, err := reg.Signals(ctx, &schemas.IdentityRecord{ID: 2})
		require.NoError(t, err)
		assert.False(t, sig.AgeKnown)
		assert.True(t, sig.TxKnown)
		assert.Zero(t, sig.TxCount)
	})

	t.Run("nil record errors", func(t *testing.T) {
		t.Parallel()
		_, err := reg.Signals(ctx, nil)
		assert.Error(t, err)
	})
}

func TestParseSnapshot_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"identities": [`},
		{name: "zero id", body: `{"identities": [{"id": 0, "owner": "0xaaa"}]}`},
		{name: "duplicate id", body: `{"identities": [{"id": 1, "owner": "0xa"}, {"id": 1, "owner": "0xb"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseSnapshot([]byte(tc.body))
			assert.Error(t, err)
		})
	}
}

func TestOpenFile_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := OpenFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
