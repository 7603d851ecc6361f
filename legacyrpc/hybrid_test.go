package legacyrpc

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLogsHybridPureLocalSkipsLegacyLeg(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	called := false
	requested := Filter{
		FromBlock: blockNum(1_000_010),
		ToBlock:   blockNum(1_000_500),
	}
	fetchLocal := func(ctx context.Context, f Filter) ([]Log, error) {
		called = true
		// A pure-local filter must reach the fetcher unchanged, not widened
		// to the split boundary (from = cutoff).
		assert.Equal(t, requested, f)
		return []Log{{BlockNumber: 1_000_001, TransactionIndex: 0, LogIndex: 0}}, nil
	}

	logs, err := m.FetchLogsHybrid(context.Background(), nil, requested, fetchLocal)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Len(t, logs, 1)
}

func TestFetchLogsHybridBlockHashFilterErrors(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	hash := common.HexToHash("0x1")
	_, err := m.FetchLogsHybrid(context.Background(), nil, Filter{BlockHash: &hash}, nil)
	assert.ErrorIs(t, err, ErrBlockHashFilter)
}
