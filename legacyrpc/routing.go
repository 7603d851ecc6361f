package legacyrpc

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// ShouldRouteToLegacy is true iff client is non-nil, number is a concrete
// block number (not a special tag), and that number is strictly less than
// the client's cutoff.
func ShouldRouteToLegacy(client *Client, number rpc.BlockNumber) bool {
	if client == nil {
		return false
	}
	if number < 0 {
		// Latest, Pending, Earliest, Finalized, and Safe are all encoded
		// as negative sentinel values; none of them route to legacy.
		return false
	}
	return uint64(number) < client.CutoffBlock()
}

// ShouldRouteBlockIDToLegacy is true iff blockID selects a concrete block
// number that routes per ShouldRouteToLegacy. A hash-valued block id is
// never routed here — the block height behind a hash is unknown at the
// routing gate, so hash-valued lookups always go local first.
func ShouldRouteBlockIDToLegacy(client *Client, blockID *rpc.BlockNumberOrHash) bool {
	if client == nil || blockID == nil {
		return false
	}
	if number, ok := blockID.Number(); ok {
		return ShouldRouteToLegacy(client, number)
	}
	return false
}

// ConvertViaJSON round-trips v through JSON to adapt between two wire
// shapes that serialize compatibly but are distinct Go types — the
// generic rendering of a Serialize/Deserialize-based conversion.
func ConvertViaJSON[T any, U any](v T) (U, error) {
	var out U
	buf, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("legacyrpc: marshal source: %w", err)
	}
	if err := json.Unmarshal(buf, &out); err != nil {
		return out, fmt.Errorf("legacyrpc: unmarshal target: %w", err)
	}
	return out, nil
}

// ConvertOptionViaJSON is ConvertViaJSON for an optional source value: a nil
// v yields the zero value of U and no error.
func ConvertOptionViaJSON[T any, U any](v *T) (U, error) {
	var out U
	if v == nil {
		return out, nil
	}
	return ConvertViaJSON[T, U](*v)
}
