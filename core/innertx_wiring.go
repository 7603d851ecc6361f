package core

import (
	"github.com/ethereum/go-ethereum/core/vm"

	nodetracing "github.com/okx-xlayer/node-ext/tracing"
)

// WithInnerTxCapture returns a copy of base whose Tracer is wired to record
// the inner-transaction call tree via the node-ext inspector, plus the
// inspector itself so the caller can read back InnerTxs after ExecuteTx
// returns. base.Tracer, if already set, is left untouched: inner-tx capture
// only engages when the caller hasn't already wired a tracer of its own.
func WithInnerTxCapture(base vm.Config) (vm.Config, *nodetracing.InnerTxInspector) {
	if base.Tracer != nil {
		return base, nil
	}
	ins := nodetracing.NewInnerTxInspector()
	base.Tracer = nodetracing.NewGethHooks(ins)
	return base, ins
}
