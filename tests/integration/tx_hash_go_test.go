//go:build !revm
// +build !revm

package integration_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/consensus"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	nodecore "github.com/okx-xlayer/node-ext/core"
)

// dummyChainCtx is a minimal implementation of core.ChainContext that only provides
// access to the ChainConfig. It's sufficient for creating a BlockContext in tests.
type dummyChainCtx struct{ cfg *params.ChainConfig }

func (d dummyChainCtx) Engine() consensus.Engine { return nil }

func (d dummyChainCtx) GetHeader(_ common.Hash, _ uint64) *types.Header { return nil }

func (d dummyChainCtx) Config() *params.ChainConfig { return d.cfg }

// TestTxHash_GoEVM executes a simple value transfer using the native Go-EVM and
// logs the resulting transaction hash. Compile/run without the `revm` build tag.
func TestTxHash_GoEVM(t *testing.T) {
	// -------------------------------------------------------------------------
	// 1. Common setup
	// -------------------------------------------------------------------------

	// Create two deterministic accounts
	privKey, _ := crypto.HexToECDSA("8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a")
	fromAddr := crypto.PubkeyToAddress(privKey.PublicKey)
	toAddr := common.HexToAddress("0x0D3ab14BBaD3D99F4203bd7a11aCB94882050E7e")

	chainCfg := params.TestChainConfig
	signer := types.LatestSignerForChainID(chainCfg.ChainID)

	header := &types.Header{
		Number:     big.NewInt(1),
		ParentHash: common.Hash{1},
		BaseFee:    big.NewInt(1_000_000_000), // 1 gwei
		Time:       10,
		GasLimit:   1000000,
		Difficulty: big.NewInt(1),
	}

	// Build a legacy transaction (simpler than blob tx for baseline)
	txData := &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(2_000_000_000), // 2 gwei > basefee
		Gas:      params.TxGas,
		To:       &toAddr,
		Value:    big.NewInt(0),
		Data:     nil,
	}
	tx, err := types.SignTx(types.NewTx(txData), signer, privKey)
	require.NoError(t, err)

	// -------------------------------------------------------------------------
	// 2. Run via Go-EVM
	// -------------------------------------------------------------------------
	// Create an in-memory StateDB and fund the sender.
	memDB := state.NewDatabaseForTesting()
	statedb, err := state.New(common.Hash{}, memDB)
	require.NoError(t, err)
	statedb.AddBalance(fromAddr, uint256.NewInt(1e18), tracing.BalanceChangeTransfer)

	blockCtx := core.NewEVMBlockContext(header, dummyChainCtx{cfg: chainCfg}, &fromAddr)
	evm := vm.NewEVM(blockCtx, statedb, chainCfg, vm.Config{})

	// Convert to message and execute
	msg, _ := core.TransactionToMessage(tx, signer, header.BaseFee)
	gasPool := new(core.GasPool).AddGas(header.GasLimit)
	_, err = core.ApplyMessage(evm, msg, gasPool)
	require.NoError(t, err)

	txHash := tx.Hash()
	t.Logf("[Go-EVM] Tx Hash: %s", txHash.Hex())
}

// TestTxHash_GoEVM_InnerTxCapture exercises the same value-transfer scenario
// through nodecore.TxExecutor with inner-tx capture enabled, confirming the
// real go-ethereum executor drives the node-ext tracer hooks end to end.
func TestTxHash_GoEVM_InnerTxCapture(t *testing.T) {
	privKey, _ := crypto.HexToECDSA("8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a")
	fromAddr := crypto.PubkeyToAddress(privKey.PublicKey)
	toAddr := common.HexToAddress("0x0D3ab14BBaD3D99F4203bd7a11aCB94882050E7e")

	chainCfg := params.TestChainConfig
	signer := types.LatestSignerForChainID(chainCfg.ChainID)

	header := &types.Header{
		Number:     big.NewInt(1),
		ParentHash: common.Hash{1},
		BaseFee:    big.NewInt(1_000_000_000),
		Time:       10,
		GasLimit:   1_000_000,
		Difficulty: big.NewInt(1),
	}

	txData := &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(2_000_000_000),
		Gas:      params.TxGas,
		To:       &toAddr,
		Value:    big.NewInt(0),
	}
	tx, err := types.SignTx(types.NewTx(txData), signer, privKey)
	require.NoError(t, err)

	memDB := state.NewDatabaseForTesting()
	statedb, err := state.New(common.Hash{}, memDB)
	require.NoError(t, err)
	statedb.AddBalance(fromAddr, uint256.NewInt(1e18), tracing.BalanceChangeTransfer)

	evmCfg, inspector := nodecore.WithInnerTxCapture(vm.Config{})
	executor := nodecore.NewTxExecutor(chainCfg, nil)

	gasPool := new(core.GasPool).AddGas(header.GasLimit)
	usedGas := new(uint64)
	receipt, err := executor.ExecuteTx(&fromAddr, gasPool, statedb, header, tx, usedGas, evmCfg)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.NotNil(t, inspector)

	// A bare EOA-to-EOA transfer makes no sub-calls: the top-level
	// transaction frame itself must never surface as an InnerTx.
	require.Empty(t, inspector.GetInnerTxs())
}

// TestTxHash_GoEVM_InnerTxCapture_NestedCall drives a transaction into a
// contract that performs exactly one CALL, and checks that the resulting
// InnerTx is recorded at depth 1 — the top-level transaction frame (depth 0
// from the host's perspective) must never shift a real sub-call's depth.
func TestTxHash_GoEVM_InnerTxCapture_NestedCall(t *testing.T) {
	privKey, _ := crypto.HexToECDSA("8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a")
	fromAddr := crypto.PubkeyToAddress(privKey.PublicKey)
	contractAddr := common.HexToAddress("0x0D3ab14BBaD3D99F4203bd7a11aCB94882050E7e")
	calleeAddr := common.HexToAddress("0x00000000000000000000000000000000001234")

	chainCfg := params.TestChainConfig
	signer := types.LatestSignerForChainID(chainCfg.ChainID)

	header := &types.Header{
		Number:     big.NewInt(1),
		ParentHash: common.Hash{1},
		BaseFee:    big.NewInt(1_000_000_000),
		Time:       10,
		GasLimit:   1_000_000,
		Difficulty: big.NewInt(1),
	}

	txData := &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(2_000_000_000),
		Gas:      100_000,
		To:       &contractAddr,
		Value:    big.NewInt(0),
	}
	tx, err := types.SignTx(types.NewTx(txData), signer, privKey)
	require.NoError(t, err)

	memDB := state.NewDatabaseForTesting()
	statedb, err := state.New(common.Hash{}, memDB)
	require.NoError(t, err)
	statedb.AddBalance(fromAddr, uint256.NewInt(1e18), tracing.BalanceChangeTransfer)

	// CALL(gas=0xffff, addr=calleeAddr, value=0, argsOffset=0, argsSize=0,
	// retOffset=0, retSize=0); STOP.
	code := []byte{
		byte(vm.PUSH1), 0x00, // retSize
		byte(vm.PUSH1), 0x00, // retOffset
		byte(vm.PUSH1), 0x00, // argsSize
		byte(vm.PUSH1), 0x00, // argsOffset
		byte(vm.PUSH1), 0x00, // value
		byte(vm.PUSH20),
	}
	code = append(code, calleeAddr.Bytes()...)
	code = append(code,
		byte(vm.PUSH2), 0xff, 0xff, // gas
		byte(vm.CALL),
		byte(vm.STOP),
	)
	statedb.SetCode(contractAddr, code)

	evmCfg, inspector := nodecore.WithInnerTxCapture(vm.Config{})
	executor := nodecore.NewTxExecutor(chainCfg, nil)

	gasPool := new(core.GasPool).AddGas(header.GasLimit)
	usedGas := new(uint64)
	receipt, err := executor.ExecuteTx(&fromAddr, gasPool, statedb, header, tx, usedGas, evmCfg)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	innerTxs := inspector.GetInnerTxs()
	require.Len(t, innerTxs, 1)
	require.Equal(t, 1, innerTxs[0].Depth)
}
