package legacyrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is a thin, typed wrapper over the legacy full node's JSON-RPC
// surface (§6.2). Every method issues exactly one request bounded by the
// client's configured per-call timeout. Structured results (blocks,
// transactions, receipts, logs, filter changes, proofs, fee history) are
// returned as raw JSON so callers decode into whichever concrete type their
// call site needs; scalar results (counts, balances, code, gas, hashes,
// bools) are decoded into hexutil/common types.
type Client struct {
	rc      *rpc.Client
	cutoff  uint64
	timeout time.Duration
}

// Dial connects to cfg.Endpoint and returns a ready client. A malformed
// endpoint URL is the one init-time failure mode §7 calls out for this
// component.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	rc, err := rpc.DialContext(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("legacyrpc: dial %q: %w", cfg.Endpoint, err)
	}
	return &Client{rc: rc, cutoff: cfg.CutoffBlock, timeout: cfg.Timeout}, nil
}

// CutoffBlock returns the configured routing boundary.
func (c *Client) CutoffBlock() uint64 { return c.cutoff }

// Close releases the underlying transport.
func (c *Client) Close() { c.rc.Close() }

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.rc.CallContext(cctx, result, method, args...); err != nil {
		return fmt.Errorf("legacyrpc: %s: %w", method, err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.call(ctx, &out, method, args...)
	return out, err
}

func (c *Client) GetBlockByNumber(ctx context.Context, number rpc.BlockNumber, fullTx bool) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getBlockByNumber", number, fullTx)
}

func (c *Client) GetBlockByHash(ctx context.Context, hash common.Hash, fullTx bool) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getBlockByHash", hash, fullTx)
}

func (c *Client) GetTransactionByHash(ctx context.Context, hash common.Hash) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getTransactionByHash", hash)
}

func (c *Client) GetTransactionReceipt(ctx context.Context, hash common.Hash) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getTransactionReceipt", hash)
}

func (c *Client) GetLogs(ctx context.Context, filter any) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getLogs", filter)
}

func (c *Client) NewFilter(ctx context.Context, filter any) (json.RawMessage, error) {
	return c.raw(ctx, "eth_newFilter", filter)
}

func (c *Client) GetFilterChanges(ctx context.Context, id rpc.ID) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getFilterChanges", id)
}

func (c *Client) GetFilterLogs(ctx context.Context, id rpc.ID) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getFilterLogs", id)
}

func (c *Client) UninstallFilter(ctx context.Context, id rpc.ID) (bool, error) {
	var out bool
	err := c.call(ctx, &out, "eth_uninstallFilter", id)
	return out, err
}

func (c *Client) GetBlockTransactionCountByNumber(ctx context.Context, number rpc.BlockNumber) (hexutil.Uint, error) {
	var out hexutil.Uint
	err := c.call(ctx, &out, "eth_getBlockTransactionCountByNumber", number)
	return out, err
}

func (c *Client) GetBlockTransactionCountByHash(ctx context.Context, hash common.Hash) (hexutil.Uint, error) {
	var out hexutil.Uint
	err := c.call(ctx, &out, "eth_getBlockTransactionCountByHash", hash)
	return out, err
}

func (c *Client) GetUncleCountByBlockNumber(ctx context.Context, number rpc.BlockNumber) (hexutil.Uint, error) {
	var out hexutil.Uint
	err := c.call(ctx, &out, "eth_getUncleCountByBlockNumber", number)
	return out, err
}

func (c *Client) GetUncleCountByBlockHash(ctx context.Context, hash common.Hash) (hexutil.Uint, error) {
	var out hexutil.Uint
	err := c.call(ctx, &out, "eth_getUncleCountByBlockHash", hash)
	return out, err
}

func (c *Client) GetBalance(ctx context.Context, addr common.Address, blockNrOrHash rpc.BlockNumberOrHash) (*hexutil.Big, error) {
	var out hexutil.Big
	err := c.call(ctx, &out, "eth_getBalance", addr, blockNrOrHash)
	return &out, err
}

func (c *Client) GetCode(ctx context.Context, addr common.Address, blockNrOrHash rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	var out hexutil.Bytes
	err := c.call(ctx, &out, "eth_getCode", addr, blockNrOrHash)
	return out, err
}

func (c *Client) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash, blockNrOrHash rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	var out hexutil.Bytes
	err := c.call(ctx, &out, "eth_getStorageAt", addr, slot, blockNrOrHash)
	return out, err
}

func (c *Client) GetTransactionCount(ctx context.Context, addr common.Address, blockNrOrHash rpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	var out hexutil.Uint64
	err := c.call(ctx, &out, "eth_getTransactionCount", addr, blockNrOrHash)
	return out, err
}

func (c *Client) Call(ctx context.Context, callArgs any, blockNrOrHash rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	var out hexutil.Bytes
	err := c.call(ctx, &out, "eth_call", callArgs, blockNrOrHash)
	return out, err
}

func (c *Client) EstimateGas(ctx context.Context, callArgs any) (hexutil.Uint64, error) {
	var out hexutil.Uint64
	err := c.call(ctx, &out, "eth_estimateGas", callArgs)
	return out, err
}

func (c *Client) CreateAccessList(ctx context.Context, callArgs any, blockNrOrHash rpc.BlockNumberOrHash) (json.RawMessage, error) {
	return c.raw(ctx, "eth_createAccessList", callArgs, blockNrOrHash)
}

func (c *Client) GetProof(ctx context.Context, addr common.Address, storageKeys []common.Hash, blockNrOrHash rpc.BlockNumberOrHash) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getProof", addr, storageKeys, blockNrOrHash)
}

func (c *Client) GetTransactionByBlockHashAndIndex(ctx context.Context, hash common.Hash, index hexutil.Uint) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getTransactionByBlockHashAndIndex", hash, index)
}

func (c *Client) GetTransactionByBlockNumberAndIndex(ctx context.Context, number rpc.BlockNumber, index hexutil.Uint) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getTransactionByBlockNumberAndIndex", number, index)
}

func (c *Client) GetUncleByBlockHashAndIndex(ctx context.Context, hash common.Hash, index hexutil.Uint) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getUncleByBlockHashAndIndex", hash, index)
}

func (c *Client) GetUncleByBlockNumberAndIndex(ctx context.Context, number rpc.BlockNumber, index hexutil.Uint) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getUncleByBlockNumberAndIndex", number, index)
}

func (c *Client) GetBlockReceipts(ctx context.Context, blockNrOrHash rpc.BlockNumberOrHash) (json.RawMessage, error) {
	return c.raw(ctx, "eth_getBlockReceipts", blockNrOrHash)
}

func (c *Client) GasPrice(ctx context.Context) (*hexutil.Big, error) {
	var out hexutil.Big
	err := c.call(ctx, &out, "eth_gasPrice")
	return &out, err
}

func (c *Client) MaxPriorityFeePerGas(ctx context.Context) (*hexutil.Big, error) {
	var out hexutil.Big
	err := c.call(ctx, &out, "eth_maxPriorityFeePerGas")
	return &out, err
}

func (c *Client) FeeHistory(ctx context.Context, blockCount hexutil.Uint, newestBlock rpc.BlockNumber, rewardPercentiles []float64) (json.RawMessage, error) {
	return c.raw(ctx, "eth_feeHistory", blockCount, newestBlock, rewardPercentiles)
}

func (c *Client) BlobBaseFee(ctx context.Context) (*hexutil.Big, error) {
	var out hexutil.Big
	err := c.call(ctx, &out, "eth_blobBaseFee")
	return &out, err
}

func (c *Client) SendRawTransaction(ctx context.Context, signedTx hexutil.Bytes) (common.Hash, error) {
	var out common.Hash
	err := c.call(ctx, &out, "eth_sendRawTransaction", signedTx)
	return out, err
}
