package core

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/consensus"
	gethcore "github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
)

// stubEngine is a minimal consensus.Engine implementation used in unit tests
// and other off-chain execution paths that do not require full consensus rules.
// All methods are no-ops except Author, which returns the coinbase from the
// supplied header so that reward attribution works for block context creation.
type stubEngine struct{}

func (stubEngine) Author(h *types.Header) (common.Address, error) { return h.Coinbase, nil }

func (stubEngine) VerifyHeader(consensus.ChainHeaderReader, *types.Header) error { return nil }

func (stubEngine) VerifyHeaders(consensus.ChainHeaderReader, []*types.Header) (chan<- struct{}, <-chan error) {
	quit := make(chan struct{})
	results := make(chan error)
	go func() {
		<-quit
		close(results)
	}()
	return quit, results
}

func (stubEngine) VerifyUncles(consensus.ChainReader, *types.Block) error { return nil }
func (stubEngine) VerifyRequests(*types.Header, [][]byte) error           { return nil }
func (stubEngine) NextInTurnValidator(consensus.ChainHeaderReader, *types.Header) (common.Address, error) {
	return common.Address{}, nil
}
func (stubEngine) Prepare(consensus.ChainHeaderReader, *types.Header) error { return nil }
func (stubEngine) Finalize(consensus.ChainHeaderReader, *types.Header, vm.StateDB, *[]*types.Transaction, []*types.Header, []*types.Withdrawal, *[]*types.Receipt, *[]*types.Transaction, *uint64, *tracing.Hooks) error {
	return nil
}
func (stubEngine) FinalizeAndAssemble(consensus.ChainHeaderReader, *types.Header, *state.StateDB, *types.Body, []*types.Receipt, *tracing.Hooks) (*types.Block, []*types.Receipt, error) {
	return nil, nil, nil
}
func (stubEngine) Seal(consensus.ChainHeaderReader, *types.Block, chan<- *types.Block, <-chan struct{}) error {
	return nil
}
func (stubEngine) SealHash(*types.Header) common.Hash { return common.Hash{} }
func (stubEngine) CalcDifficulty(consensus.ChainHeaderReader, uint64, *types.Header) *big.Int {
	return big.NewInt(0)
}
func (stubEngine) APIs(consensus.ChainHeaderReader) []rpc.API { return nil }
func (stubEngine) Delay(consensus.ChainReader, *types.Header, *time.Duration) *time.Duration {
	return nil
}
func (stubEngine) Close() error { return nil }

// stubChain implements gethcore.ChainContext with a static chain config and
// the stubEngine above. It is sufficient for constructing an EVM block
// context when no real blockchain backend is present (e.g. isolated unit
// tests or off-chain call simulation).
type stubChain struct {
	cfg *params.ChainConfig
}

func (stubChain) Engine() consensus.Engine                    { return stubEngine{} }
func (stubChain) GetHeader(common.Hash, uint64) *types.Header { return nil }
func (s stubChain) Config() *params.ChainConfig               { return s.cfg }

// TxExecutor runs a single transaction against a statedb using go-ethereum's
// own consensus rules, threading through whatever vm.Config the caller
// supplies — in particular a Tracer wired up via WithInnerTxCapture. It
// exists as a thin seam so that inner-tx capture, and any future execution
// backend, can be swapped in without the RPC and mining layers depending
// directly on gethcore's internals.
type TxExecutor struct {
	Config *params.ChainConfig
	Chain  gethcore.ChainContext
}

// NewTxExecutor builds a TxExecutor bound to cfg. A nil chain falls back to
// a stubChain so callers with no live blockchain backend (unit tests, a
// detached simulation) still get a usable BLOCKHASH-capable context.
func NewTxExecutor(cfg *params.ChainConfig, chain gethcore.ChainContext) *TxExecutor {
	if chain == nil {
		chain = stubChain{cfg: cfg}
	}
	return &TxExecutor{Config: cfg, Chain: chain}
}

// ExecuteTx applies tx against sdb and returns its receipt. evmCfg.Tracer,
// when set, observes every inner call/create/self-destruct performed during
// execution — see core.WithInnerTxCapture.
func (e *TxExecutor) ExecuteTx(author *common.Address, gp *gethcore.GasPool, sdb *state.StateDB, header *types.Header, tx *types.Transaction, usedGas *uint64, evmCfg vm.Config) (*types.Receipt, error) {
	return gethcore.ApplyTransaction(e.Config, e.Chain, author, gp, sdb, header, tx, usedGas, evmCfg)
}
