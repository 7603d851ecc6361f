package legacyrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// FilterType classifies a filter's block range relative to the manager's
// cutoff.
type FilterType int

const (
	PureLegacy FilterType = iota
	PureLocal
	Hybrid
)

func (t FilterType) String() string {
	switch t {
	case PureLegacy:
		return "pure_legacy"
	case PureLocal:
		return "pure_local"
	case Hybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ErrBlockHashFilter is returned by classify/split when a filter selects by
// block hash rather than a numeric range: such a filter has no cutoff-based
// classification and must be routed by a separate hash-based fallback.
var ErrBlockHashFilter = errors.New("legacyrpc: filter references a block hash, not a numeric range")

// Filter is the subset of an eth_newFilter/eth_getLogs argument this
// manager needs: an optional numeric range or a single block-hash
// selector, plus the address/topic sets that must be preserved verbatim
// across a split.
type Filter struct {
	FromBlock *rpc.BlockNumber
	ToBlock   *rpc.BlockNumber
	BlockHash *common.Hash
	Addresses []common.Address
	Topics    [][]common.Hash
}

// Log is the minimal shape merge_logs needs to establish canonical order.
// Payload carries the full decoded log object for callers that need more
// than the ordering fields.
type Log struct {
	BlockNumber      uint64
	TransactionIndex uint64
	LogIndex         uint64
	Payload          any
}

// UnmarshalJSON decodes a real eth_getLogs entry, whose ordering fields are
// hex quantity strings (e.g. "blockNumber": "0x10"), not JSON numbers.
func (l *Log) UnmarshalJSON(data []byte) error {
	var fields struct {
		BlockNumber      hexutil.Uint64 `json:"blockNumber"`
		TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
		LogIndex         hexutil.Uint64 `json:"logIndex"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	l.BlockNumber = uint64(fields.BlockNumber)
	l.TransactionIndex = uint64(fields.TransactionIndex)
	l.LogIndex = uint64(fields.LogIndex)
	l.Payload = payload
	return nil
}

// FilterMetadata is the manager's bookkeeping record for one issued filter
// id: the caller's original filter, its classification, and up to one
// backend-issued id per backend.
type FilterMetadata struct {
	Original Filter
	Type     FilterType
	LegacyID *rpc.ID
	LocalID  *rpc.ID
}

// CrossBoundaryFilterManager classifies, stores, and splits filter
// subscriptions that may straddle cutoff_block, and merges legacy/local
// log results into one canonically ordered sequence.
type CrossBoundaryFilterManager struct {
	cutoff uint64

	mu      sync.RWMutex
	filters map[rpc.ID]*FilterMetadata
	nextID  uint64
}

// NewCrossBoundaryFilterManager constructs a manager fixed to cutoff for
// its entire lifetime.
func NewCrossBoundaryFilterManager(cutoff uint64) *CrossBoundaryFilterManager {
	return &CrossBoundaryFilterManager{
		cutoff:  cutoff,
		filters: make(map[rpc.ID]*FilterMetadata),
		nextID:  1,
	}
}

// ParseBlockRange maps a filter's block selector into a concrete [from, to]
// pair for classification purposes. Earliest maps to 0; Latest, Pending,
// Finalized, Safe, and an absent selector all map to math.MaxUint64,
// treated as "now".
func ParseBlockRange(f Filter) (from, to uint64) {
	from = resolveTag(f.FromBlock)
	to = resolveTag(f.ToBlock)
	return from, to
}

func resolveTag(n *rpc.BlockNumber) uint64 {
	if n == nil {
		return math.MaxUint64
	}
	switch *n {
	case rpc.EarliestBlockNumber:
		return 0
	case rpc.LatestBlockNumber, rpc.PendingBlockNumber, rpc.FinalizedBlockNumber, rpc.SafeBlockNumber:
		return math.MaxUint64
	default:
		if *n < 0 {
			return math.MaxUint64
		}
		return uint64(*n)
	}
}

// Classify determines whether f can be served entirely by the legacy
// endpoint, entirely locally, or needs splitting. A block-hash filter has
// no numeric classification.
func (m *CrossBoundaryFilterManager) Classify(f Filter) (FilterType, error) {
	if f.BlockHash != nil {
		return 0, ErrBlockHashFilter
	}
	from, to := ParseBlockRange(f)
	switch {
	case to < m.cutoff:
		return PureLegacy, nil
	case from >= m.cutoff:
		return PureLocal, nil
	default:
		return Hybrid, nil
	}
}

// Split divides a Hybrid filter into a legacy-side copy (to = cutoff-1) and
// a local-side copy (from = cutoff), both preserving the address and topic
// sets verbatim. Block-hash filters cannot be split.
func (m *CrossBoundaryFilterManager) Split(f Filter) (legacy, local Filter, err error) {
	if f.BlockHash != nil {
		return Filter{}, Filter{}, ErrBlockHashFilter
	}
	legacyTo := rpc.BlockNumber(m.cutoff - 1)
	localFrom := rpc.BlockNumber(m.cutoff)

	legacy = f
	legacy.ToBlock = &legacyTo

	local = f
	local.FromBlock = &localFrom

	return legacy, local, nil
}

// Register allocates a new manager-issued filter id and stores its
// metadata. Ids are independent of any backend-issued id. Ids are drawn
// from a monotonically increasing counter starting at 1, not randomized,
// matching the reference allocator's deterministic next_id++ scheme.
func (m *CrossBoundaryFilterManager) Register(original Filter, typ FilterType, legacyID, localID *rpc.ID) rpc.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rpc.ID(fmt.Sprintf("0x%x", m.nextID))
	m.nextID++
	m.filters[id] = &FilterMetadata{
		Original: original,
		Type:     typ,
		LegacyID: legacyID,
		LocalID:  localID,
	}
	return id
}

// Get looks up a filter's metadata by manager-issued id.
func (m *CrossBoundaryFilterManager) Get(id rpc.ID) (*FilterMetadata, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	md, ok := m.filters[id]
	return md, ok
}

// Remove evicts a filter's metadata.
func (m *CrossBoundaryFilterManager) Remove(id rpc.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.filters, id)
}

// MergeLogs concatenates legacy and local results and stably sorts the
// combined sequence by (block_number, transaction_index, log_index)
// ascending. The result always has len(legacy)+len(local) entries.
func MergeLogs(legacyLogs, localLogs []Log) []Log {
	merged := make([]Log, 0, len(legacyLogs)+len(localLogs))
	merged = append(merged, legacyLogs...)
	merged = append(merged, localLogs...)
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}
		if a.TransactionIndex != b.TransactionIndex {
			return a.TransactionIndex < b.TransactionIndex
		}
		return a.LogIndex < b.LogIndex
	})
	return merged
}
