package legacyrpc

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockNum(n int64) *rpc.BlockNumber {
	b := rpc.BlockNumber(n)
	return &b
}

func TestClassifyPureLegacy(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	typ, err := m.Classify(Filter{FromBlock: blockNum(1), ToBlock: blockNum(999_999)})
	require.NoError(t, err)
	assert.Equal(t, PureLegacy, typ)
}

func TestClassifyPureLocal(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	typ, err := m.Classify(Filter{FromBlock: blockNum(1_000_000), ToBlock: blockNum(1_000_500)})
	require.NoError(t, err)
	assert.Equal(t, PureLocal, typ)
}

func TestClassifyHybridAtBoundary(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	typ, err := m.Classify(Filter{FromBlock: blockNum(999_000), ToBlock: blockNum(1_001_000)})
	require.NoError(t, err)
	assert.Equal(t, Hybrid, typ)
}

func TestClassifyWithLatestTag(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	latest := rpc.LatestBlockNumber
	typ, err := m.Classify(Filter{FromBlock: blockNum(999_000), ToBlock: &latest})
	require.NoError(t, err)
	assert.Equal(t, Hybrid, typ)
}

func TestClassifyBlockHashFilterErrors(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	h := common.HexToHash("0x1")
	_, err := m.Classify(Filter{BlockHash: &h})
	assert.ErrorIs(t, err, ErrBlockHashFilter)
}

func TestSplitExactBoundary(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	f := Filter{
		FromBlock: blockNum(999_000),
		ToBlock:   blockNum(1_001_000),
		Addresses: []common.Address{common.HexToAddress("0xabc")},
	}
	legacy, local, err := m.Split(f)
	require.NoError(t, err)
	require.NotNil(t, legacy.ToBlock)
	require.NotNil(t, local.FromBlock)
	assert.Equal(t, int64(999_999), int64(*legacy.ToBlock))
	assert.Equal(t, int64(1_000_000), int64(*local.FromBlock))
	assert.Equal(t, f.Addresses, legacy.Addresses)
	assert.Equal(t, f.Addresses, local.Addresses)
}

func TestRegisterGetRemoveRoundTrip(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	id := m.Register(Filter{}, PureLocal, nil, nil)

	md, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, PureLocal, md.Type)

	m.Remove(id)
	_, ok = m.Get(id)
	assert.False(t, ok)
}

func TestRegisterProducesDistinctIDs(t *testing.T) {
	m := NewCrossBoundaryFilterManager(1_000_000)
	id1 := m.Register(Filter{}, PureLocal, nil, nil)
	id2 := m.Register(Filter{}, PureLocal, nil, nil)
	assert.NotEqual(t, id1, id2)
}

func TestMergeLogsBoundaryScenario(t *testing.T) {
	legacy := []Log{
		{BlockNumber: 999_001, TransactionIndex: 0, LogIndex: 0},
		{BlockNumber: 999_002, TransactionIndex: 0, LogIndex: 1},
		{BlockNumber: 999_002, TransactionIndex: 0, LogIndex: 0},
	}
	local := []Log{
		{BlockNumber: 1_000_001, TransactionIndex: 1, LogIndex: 0},
		{BlockNumber: 1_000_000, TransactionIndex: 0, LogIndex: 0},
		{BlockNumber: 1_000_000, TransactionIndex: 1, LogIndex: 0},
	}
	merged := MergeLogs(legacy, local)
	require.Len(t, merged, 6)

	for i := 1; i < len(merged); i++ {
		a, b := merged[i-1], merged[i]
		lessOrEqual := a.BlockNumber < b.BlockNumber ||
			(a.BlockNumber == b.BlockNumber && a.TransactionIndex < b.TransactionIndex) ||
			(a.BlockNumber == b.BlockNumber && a.TransactionIndex == b.TransactionIndex && a.LogIndex <= b.LogIndex)
		assert.True(t, lessOrEqual, "merged logs must be in ascending canonical order")
	}
	// same-block tie-break: 999_002 idx(0,0) before idx(0,1)
	assert.Equal(t, uint64(999_002), merged[1].BlockNumber)
	assert.Equal(t, uint64(0), merged[1].LogIndex)
	assert.Equal(t, uint64(999_002), merged[2].BlockNumber)
	assert.Equal(t, uint64(1), merged[2].LogIndex)
}

func TestParseBlockRangeTags(t *testing.T) {
	earliest := rpc.EarliestBlockNumber
	from, to := ParseBlockRange(Filter{FromBlock: &earliest})
	assert.Equal(t, uint64(0), from)
	assert.Equal(t, uint64(^uint64(0)), to)
}
