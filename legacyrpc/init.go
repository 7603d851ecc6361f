package legacyrpc

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
)

// Components bundles the optional legacy client and filter manager the RPC
// surface consults on every inbound request. A zero Components (from
// Empty) means legacy routing is disabled entirely.
type Components struct {
	Client        *Client
	FilterManager *CrossBoundaryFilterManager
}

// Empty returns disabled legacy-support components.
func Empty() Components {
	return Components{}
}

// IsEnabled reports whether legacy routing is wired up.
func (c Components) IsEnabled() bool {
	return c.Client != nil && c.FilterManager != nil
}

// InitComponents assembles D+E from cfg. A nil cfg disables legacy support
// entirely. A malformed endpoint URL is treated as a soft-disable: the
// failure is logged as a warning and empty components are returned rather
// than failing node startup, matching the original implementation's
// behavior for this one init sub-case (see DESIGN.md).
func InitComponents(ctx context.Context, cfg *Config) Components {
	if cfg == nil {
		return Empty()
	}
	client, err := Dial(ctx, *cfg)
	if err != nil {
		log.Warn("legacyrpc: failed to initialize legacy RPC client, legacy routing disabled", "endpoint", cfg.Endpoint, "err", err)
		return Empty()
	}
	log.Info("legacyrpc: legacy RPC routing enabled", "cutoff", cfg.CutoffBlock, "endpoint", cfg.Endpoint)
	return Components{
		Client:        client,
		FilterManager: NewCrossBoundaryFilterManager(cfg.CutoffBlock),
	}
}
