package tracing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtracing "github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// NewGethHooks adapts a Hooks implementation into the *gethtracing.Hooks
// struct the host interpreter actually drives (see core/tx_executor.go's
// evmCfg.Tracer wiring). It translates the struct-of-function-pointers
// model used upstream into the call/create-split interface this package
// builds its inner-tx reconstruction against.
//
// The host hook set does not distinguish create from call at OnExit, so
// the bridge pushes each opened frame onto a small LIFO stack and pops it
// on exit to route that exit back to the matching CallExit/CreateExit.
func NewGethHooks(ins Hooks) *gethtracing.Hooks {
	b := &gethHooksBridge{ins: ins}
	return &gethtracing.Hooks{
		OnTxStart:       b.onTxStart,
		OnEnter:         b.onEnter,
		OnExit:          b.onExit,
		OnBalanceChange: b.onBalanceChange,
		OnNonceChange:   b.onNonceChange,
	}
}

type gethHooksBridge struct {
	ins   Hooks
	stack []openFrame
}

type openFrame struct {
	isCreate bool
	inputs   CallInputs
	create   CreateInputs
}

func (b *gethHooksBridge) onTxStart(*gethtracing.VMContext, interface{}, common.Address) {
	b.stack = b.stack[:0]
	b.ins.InitializeInterp()
}

func (b *gethHooksBridge) onEnter(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int) {
	if depth == 0 {
		// The top-level transaction itself, not a sub-call. OnTxStart already
		// established it as the root frame; recording it here would shift
		// every real sub-call's depth by one.
		return
	}
	v, _ := uint256.FromBig(value)
	op := vm.OpCode(typ)

	if op == vm.CREATE || op == vm.CREATE2 {
		scheme := CreateSchemeCreate
		if op == vm.CREATE2 {
			scheme = CreateSchemeCreate2
		}
		ci := CreateInputs{Scheme: scheme, Caller: from, Value: v, Input: input, GasLimit: gas}
		b.stack = append(b.stack, openFrame{isCreate: true, create: ci})
		b.ins.CreateEnter(&ci)
		return
	}

	scheme := callSchemeFor(op)
	ci := CallInputs{Scheme: scheme, Caller: from, Target: to, CodeAddress: to, Value: v, Input: input, GasLimit: gas}
	b.stack = append(b.stack, openFrame{isCreate: false, inputs: ci})
	b.ins.CallEnter(&ci)
}

func (b *gethHooksBridge) onExit(depth int, output []byte, gasUsed uint64, err error, reverted bool) {
	if depth == 0 {
		return
	}
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	gasRemaining := uint64(0)
	if top.isCreate {
		if top.create.GasLimit >= gasUsed {
			gasRemaining = top.create.GasLimit - gasUsed
		}
		var addr *common.Address
		if err == nil && !reverted && len(output) > 0 {
			a := common.BytesToAddress(output)
			addr = &a
		}
		b.ins.CreateExit(&top.create, &CreateOutcome{Address: addr, Output: output, GasRemaining: gasRemaining, Err: err})
		return
	}

	if top.inputs.GasLimit >= gasUsed {
		gasRemaining = top.inputs.GasLimit - gasUsed
	}
	b.ins.CallExit(&top.inputs, &CallOutcome{Output: output, GasRemaining: gasRemaining, Err: err})
}

// onBalanceChange narrows the host's fine-grained balance-change reason
// down to this package's vocabulary purely for debug visibility;
// onNonceChange logs the change without a reason, since the host hook
// passes none. Neither influences the reconstructed inner-tx tree.
func (b *gethHooksBridge) onBalanceChange(addr common.Address, prev, new *big.Int, reason gethtracing.BalanceChangeReason) {
	log.Debug("innertx: balance change", "addr", addr, "prev", prev, "new", new, "reason", balanceReasonFromGeth(reason))
}

func (b *gethHooksBridge) onNonceChange(addr common.Address, prev, new uint64) {
	log.Debug("innertx: nonce change", "addr", addr, "prev", prev, "new", new)
}

func callSchemeFor(op vm.OpCode) CallScheme {
	switch op {
	case vm.CALLCODE:
		return CallSchemeCallCode
	case vm.DELEGATECALL:
		return CallSchemeDelegateCall
	case vm.STATICCALL:
		return CallSchemeStaticCall
	default:
		return CallSchemeCall
	}
}
