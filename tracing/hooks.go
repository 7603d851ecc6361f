package tracing

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CallScheme identifies the EVM opcode family that opened a call frame.
type CallScheme int

const (
	CallSchemeCall CallScheme = iota
	CallSchemeCallCode
	CallSchemeDelegateCall
	CallSchemeStaticCall
)

// CreateScheme identifies the EVM opcode family that opened a create frame.
type CreateScheme int

const (
	CreateSchemeCreate CreateScheme = iota
	CreateSchemeCreate2
	CreateSchemeCustom
)

// CallInputs carries the inputs available at call_enter.
type CallInputs struct {
	Scheme      CallScheme
	Caller      common.Address
	Target      common.Address // "to" for the call
	CodeAddress common.Address // code actually executed (differs from Target under delegatecall)
	Value       *uint256.Int
	Input       []byte
	GasLimit    uint64
}

// CallOutcome carries the result available at call_exit.
type CallOutcome struct {
	Output       []byte
	GasRemaining uint64
	Err          error
}

// CreateInputs carries the inputs available at create_enter.
type CreateInputs struct {
	Scheme   CreateScheme
	Caller   common.Address
	Value    *uint256.Int
	Input    []byte
	GasLimit uint64
}

// CreateOutcome carries the result available at create_exit.
type CreateOutcome struct {
	Address      *common.Address // nil if the contract address was never resolved
	Output       []byte
	GasRemaining uint64
	Err          error
}

// Hooks is the integration contract between a host EVM interpreter and any
// observer that wants a synchronous, non-rejecting view of its call/create
// lifecycle. It mirrors the subset of a full inspector trait that the
// inner-tx reconstruction in this package needs; a host interpreter wires a
// concrete Hooks implementation in wherever it already drives tracing
// callbacks (see core/tx_executor.go's use of *tracing.Hooks upstream).
//
// Implementations must never capture interpreter state beyond the lifetime
// of a single hook call, and must never reject or alter execution: every
// hook is observational only.
type Hooks interface {
	InitializeInterp()
	CallEnter(inputs *CallInputs)
	CallExit(inputs *CallInputs, outcome *CallOutcome)
	CreateEnter(inputs *CreateInputs)
	CreateExit(inputs *CreateInputs, outcome *CreateOutcome)
	SelfDestruct(contract, beneficiary common.Address, value *uint256.Int)
	Step()
	StepEnd()
	Log()
}

// NullHooks is a Hooks implementation whose methods all no-op. Callers that
// have not enabled inner-tx capture wire this in so the execution path never
// has to guard every hook call site with a nil check.
type NullHooks struct{}

func (NullHooks) InitializeInterp()                                       {}
func (NullHooks) CallEnter(*CallInputs)                                   {}
func (NullHooks) CallExit(*CallInputs, *CallOutcome)                      {}
func (NullHooks) CreateEnter(*CreateInputs)                               {}
func (NullHooks) CreateExit(*CreateInputs, *CreateOutcome)                {}
func (NullHooks) SelfDestruct(common.Address, common.Address, *uint256.Int) {}
func (NullHooks) Step()                                                  {}
func (NullHooks) StepEnd()                                                {}
func (NullHooks) Log()                                                   {}

var _ Hooks = NullHooks{}
