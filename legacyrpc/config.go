package legacyrpc

import "time"

// Config binds the flags described in spec §6.1 for the legacy-rpc.*
// family: the fixed block-height boundary, the legacy node's JSON-RPC
// endpoint, and a per-call timeout.
type Config struct {
	CutoffBlock uint64
	Endpoint    string
	Timeout     time.Duration
}
