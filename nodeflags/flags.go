// Package nodeflags declares the CLI flag surface (§6.1) that a node
// binary would bind to construct apollo.Config, tracing.InnerTxInspector,
// and legacyrpc.Config. Binding these flags into an actual node main() is
// out of scope here; this package only owns the flag definitions and the
// struct constructors urfave/cli drives.
package nodeflags

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

var (
	ApolloEnableFlag = &cli.BoolFlag{
		Name:  "apollo.enable",
		Usage: "Enable remote config via Apollo.",
	}
	ApolloAppIDFlag = &cli.StringFlag{
		Name:  "apollo.app-id",
		Usage: "Apollo app identifier.",
	}
	ApolloIPFlag = &cli.StringFlag{
		Name:  "apollo.ip",
		Usage: "Comma or space separated list of Apollo meta-server URLs.",
	}
	ApolloClusterFlag = &cli.StringFlag{
		Name:  "apollo.cluster",
		Usage: "Apollo cluster name.",
	}
	ApolloNamespaceFlag = &cli.StringFlag{
		Name:  "apollo.namespace",
		Usage: "Comma separated list of Apollo namespaces.",
	}

	InnerTxEnabledFlag = &cli.BoolFlag{
		Name:  "innertx.enabled",
		Usage: "Attach the inner-tx inspector to EVM execution.",
	}

	LegacyRPCCutoffFlag = &cli.Uint64Flag{
		Name:  "legacy-rpc.cutoff",
		Usage: "Block height below which RPC is routed to the legacy endpoint.",
	}
	LegacyRPCEndpointFlag = &cli.StringFlag{
		Name:  "legacy-rpc.endpoint",
		Usage: "Legacy JSON-RPC endpoint URL.",
	}
	LegacyRPCTimeoutFlag = &cli.DurationFlag{
		Name:  "legacy-rpc.timeout",
		Usage: "Per-call timeout against the legacy endpoint.",
		Value: 10 * time.Second,
	}
)

// ApolloArgs is the flag-bound counterpart of apollo.Config.
type ApolloArgs struct {
	Enabled     bool
	AppID       string
	MetaServers []string
	Cluster     string
	Namespaces  []string
}

// ApolloArgsFromContext reads the apollo.* flags from a urfave/cli context.
func ApolloArgsFromContext(c *cli.Context) ApolloArgs {
	return ApolloArgs{
		Enabled:     c.Bool(ApolloEnableFlag.Name),
		AppID:       c.String(ApolloAppIDFlag.Name),
		MetaServers: splitList(c.String(ApolloIPFlag.Name)),
		Cluster:     c.String(ApolloClusterFlag.Name),
		Namespaces:  splitList(c.String(ApolloNamespaceFlag.Name)),
	}
}

// InnerTxArgs is the flag-bound counterpart of the inspector's enable toggle.
type InnerTxArgs struct {
	CaptureEnabled bool
}

func InnerTxArgsFromContext(c *cli.Context) InnerTxArgs {
	return InnerTxArgs{CaptureEnabled: c.Bool(InnerTxEnabledFlag.Name)}
}

// LegacyRPCArgs is the flag-bound counterpart of legacyrpc.Config.
type LegacyRPCArgs struct {
	CutoffBlock uint64
	Endpoint    string
	Timeout     time.Duration
}

func LegacyRPCArgsFromContext(c *cli.Context) LegacyRPCArgs {
	return LegacyRPCArgs{
		CutoffBlock: c.Uint64(LegacyRPCCutoffFlag.Name),
		Endpoint:    c.String(LegacyRPCEndpointFlag.Name),
		Timeout:     c.Duration(LegacyRPCTimeoutFlag.Name),
	}
}

// splitList accepts either comma- or space-separated lists, per §6.1's
// "Comma/space list of meta-server URLs" wording.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
