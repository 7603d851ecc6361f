package tracing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// InnerTx is a single frame in the reconstructed execution tree: an internal
// call, a contract creation, or a self-destruct. The top-level transaction
// frame itself is never recorded.
// It is immutable once its frame has closed; while the frame is open only
// the fields touched by CallExit/CreateExit are still mutable.
type InnerTx struct {
	Depth         int
	InternalIndex int
	CallType      string // "call", "callcode", "delegatecall", "staticcall", "create", "create2", "suicide"
	Name          string // call_type + "_" + trace address components
	TraceAddress  []int

	CodeAddress *common.Address // nil for create and suicide frames
	From        common.Address
	To          *common.Address // nil for create frames until resolved

	Input  []byte
	Output []byte

	Gas     uint64
	GasUsed uint64

	Value        *uint256.Int
	ValueWei     string // decimal
	CallValueWei string // 0x-prefixed hex

	IsError bool
	Error   string
}

func (t *CallScheme) asSchemeStr() string {
	switch *t {
	case CallSchemeCall:
		return "call"
	case CallSchemeCallCode:
		return "callcode"
	case CallSchemeDelegateCall:
		return "delegatecall"
	case CallSchemeStaticCall:
		return "staticcall"
	default:
		return "call"
	}
}

func (s *CreateScheme) asSchemeStr() string {
	switch *s {
	case CreateSchemeCreate:
		return "create"
	case CreateSchemeCreate2:
		return "create2"
	default:
		return "custom"
	}
}

// InspectorState holds the bookkeeping an InnerTxInspector carries across an
// execution. It is reset at the start of every top-level run.
type InspectorState struct {
	CurrentDepth int
	IndexCounter int
	LastDepth    int
	IndexMap     map[int]int
	InnerTxs     []*InnerTx
	callStack    []frame
}

type frame struct {
	record   *InnerTx
	position int
}

func newInspectorState() *InspectorState {
	return &InspectorState{
		IndexMap: make(map[int]int),
	}
}

// InnerTxInspector reconstructs the inner-transaction tree for a single
// top-level execution by observing call/create/selfdestruct frame
// boundaries through the Hooks contract. It never rejects a call: it is a
// pure observer, and a malformed outcome degrades to a best-effort record
// rather than interrupting execution.
type InnerTxInspector struct {
	state *InspectorState
}

// NewInnerTxInspector returns a fresh inspector ready for one execution.
func NewInnerTxInspector() *InnerTxInspector {
	return &InnerTxInspector{state: newInspectorState()}
}

var _ Hooks = (*InnerTxInspector)(nil)

// InitializeInterp resets all inspector state and starts the top-level
// frame at depth 1. Called once per top-level execution, before the first
// opcode runs.
func (ins *InnerTxInspector) InitializeInterp() {
	ins.state = newInspectorState()
	ins.state.CurrentDepth = 1
}

// GetInnerTxs returns the full ordered sequence of records. It must only be
// called after the top-level execution has finished; reading during active
// execution observes a partial, in-progress tree.
func (ins *InnerTxInspector) GetInnerTxs() []*InnerTx {
	return ins.state.InnerTxs
}

// updateIndex implements the sibling-index assignment described for frame
// entry: given the current and last-recorded depth, decide whether this
// frame continues a sibling run, resumes one after returning from deeper
// frames, or starts a fresh run one level deeper.
func (ins *InnerTxInspector) updateIndex() {
	s := ins.state
	d, ld := s.CurrentDepth, s.LastDepth
	switch {
	case d == ld:
		s.IndexCounter++
		s.IndexMap[d] = s.IndexCounter
	case d < ld:
		prev, ok := s.IndexMap[d]
		if !ok {
			prev = 0
		}
		s.IndexCounter = prev + 1
		s.IndexMap[d] = s.IndexCounter
		s.LastDepth = d
	default: // d > ld
		s.IndexCounter = 0
		s.IndexMap[d] = 0
		s.LastDepth = d
	}
}

// traceAddressAndName walks index_map across the recorded frame levels (2
// through last_depth — depth 1 is the implicit, unrecorded top-level
// transaction) to produce the path of sibling indices leading to the
// current frame, and the Erigon-style dotted name built from call_type and
// that path. len(trace_address) equals the frame's own Depth.
func (ins *InnerTxInspector) traceAddressAndName(callType string) ([]int, string) {
	s := ins.state
	addr := make([]int, 0, s.LastDepth)
	// Depth 1 is the implicit top-level transaction frame, which never gets
	// its own InnerTx record; the recorded tree starts at depth 2.
	for d := 2; d <= s.LastDepth; d++ {
		addr = append(addr, s.IndexMap[d])
	}
	var b strings.Builder
	b.WriteString(callType)
	for _, i := range addr {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(i))
	}
	return addr, b.String()
}

func weiStrings(v *uint256.Int) (string, string) {
	if v == nil {
		v = new(uint256.Int)
	}
	return v.String(), v.Hex()
}

// CallEnter opens a new call-family frame.
func (ins *InnerTxInspector) CallEnter(inputs *CallInputs) {
	if inputs == nil {
		inputs = &CallInputs{}
	}
	s := ins.state
	s.CurrentDepth++
	callType := inputs.Scheme.asSchemeStr()
	ins.updateIndex()
	addr, name := ins.traceAddressAndName(callType)

	codeAddr := inputs.CodeAddress
	to := inputs.Target
	valueWei, callValueWei := weiStrings(inputs.Value)

	rec := &InnerTx{
		Depth:         s.CurrentDepth - 1,
		InternalIndex: s.IndexCounter,
		CallType:      callType,
		Name:          name,
		TraceAddress:  addr,
		CodeAddress:   &codeAddr,
		From:          inputs.Caller,
		To:            &to,
		Input:         inputs.Input,
		Gas:           inputs.GasLimit,
		Value:         inputs.Value,
		ValueWei:      valueWei,
		CallValueWei:  callValueWei,
	}
	pos := len(s.InnerTxs)
	s.InnerTxs = append(s.InnerTxs, rec)
	s.callStack = append(s.callStack, frame{record: rec, position: pos})
}

// CallExit closes the most recently opened call frame.
func (ins *InnerTxInspector) CallExit(inputs *CallInputs, outcome *CallOutcome) {
	ins.closeFrame(inputs.GasLimit, outcome.GasRemaining, outcome.Output, outcome.Err, nil)
	ins.state.CurrentDepth--
}

// CreateEnter opens a new create-family frame. `to` remains nil until the
// paired CreateExit resolves the deployed address.
func (ins *InnerTxInspector) CreateEnter(inputs *CreateInputs) {
	if inputs == nil {
		inputs = &CreateInputs{}
	}
	s := ins.state
	s.CurrentDepth++
	callType := inputs.Scheme.asSchemeStr()
	ins.updateIndex()
	addr, name := ins.traceAddressAndName(callType)

	valueWei, callValueWei := weiStrings(inputs.Value)

	rec := &InnerTx{
		Depth:         s.CurrentDepth - 1,
		InternalIndex: s.IndexCounter,
		CallType:      callType,
		Name:          name,
		TraceAddress:  addr,
		From:          inputs.Caller,
		Input:         inputs.Input,
		Gas:           inputs.GasLimit,
		Value:         inputs.Value,
		ValueWei:      valueWei,
		CallValueWei:  callValueWei,
	}
	pos := len(s.InnerTxs)
	s.InnerTxs = append(s.InnerTxs, rec)
	s.callStack = append(s.callStack, frame{record: rec, position: pos})
}

// CreateExit closes the most recently opened create frame, filling in the
// deployed contract address when the outcome resolved one.
func (ins *InnerTxInspector) CreateExit(inputs *CreateInputs, outcome *CreateOutcome) {
	ins.closeFrame(inputs.GasLimit, outcome.GasRemaining, outcome.Output, outcome.Err, outcome.Address)
	ins.state.CurrentDepth--
}

// closeFrame implements the shared frame-exit algorithm: pop the call
// stack, compute gas_used, propagate errors to the whole subtree from the
// popped frame's position, set output, and (for creates) fill the resolved
// address.
func (ins *InnerTxInspector) closeFrame(gasLimit, gasRemaining uint64, output []byte, callErr error, createdAddr *common.Address) {
	s := ins.state
	if len(s.callStack) == 0 {
		return // defensive: exit without a matching entry never happens in practice
	}
	top := s.callStack[len(s.callStack)-1]
	s.callStack = s.callStack[:len(s.callStack)-1]

	rec := top.record
	if gasLimit >= gasRemaining {
		rec.GasUsed = gasLimit - gasRemaining
	}
	rec.Output = output

	if callErr != nil {
		rec.Error = callErr.Error()
		for i := top.position; i < len(s.InnerTxs); i++ {
			s.InnerTxs[i].IsError = true
		}
	}
	if createdAddr != nil {
		rec.To = createdAddr
	}
}

// SelfDestruct records an atomic, immediately-closed frame for a
// self-destruct event: Created -> Closed with no paired exit, zero gas, and
// the beneficiary recorded as the frame's destination. current_depth is
// left untouched, unlike call/create frame entry.
func (ins *InnerTxInspector) SelfDestruct(contract, beneficiary common.Address, value *uint256.Int) {
	s := ins.state
	ins.updateIndex()
	addr, name := ins.traceAddressAndName("suicide")
	valueWei, callValueWei := weiStrings(value)

	rec := &InnerTx{
		Depth:         s.CurrentDepth - 1,
		InternalIndex: s.IndexCounter,
		CallType:      "suicide",
		Name:          name,
		TraceAddress:  addr,
		From:          contract,
		To:            &beneficiary,
		Value:         value,
		ValueWei:      valueWei,
		CallValueWei:  callValueWei,
	}
	s.InnerTxs = append(s.InnerTxs, rec)
}

func (ins *InnerTxInspector) Step()    {}
func (ins *InnerTxInspector) StepEnd() {}
func (ins *InnerTxInspector) Log()     {}

// String implements fmt.Stringer for debug logging of a single frame.
func (t *InnerTx) String() string {
	return fmt.Sprintf("%s depth=%d idx=%d trace=%v err=%v", t.Name, t.Depth, t.InternalIndex, t.TraceAddress, t.IsError)
}
