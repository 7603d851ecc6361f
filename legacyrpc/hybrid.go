package legacyrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LocalLogFetcher fetches logs for a purely-local filter range from
// whatever backend the host node already has (its own blockchain/logs
// index). It is supplied by the caller since this package has no local
// chain backend of its own.
type LocalLogFetcher func(ctx context.Context, f Filter) ([]Log, error)

// FetchLogsHybrid resolves f's legacy/local split and fetches both halves
// concurrently, merging the results into ascending canonical order. A
// PureLegacy or PureLocal filter only drives the matching side; a Hybrid
// filter fans out both legs in parallel and waits for whichever finishes
// last, rather than paying their latencies serially.
func (m *CrossBoundaryFilterManager) FetchLogsHybrid(ctx context.Context, c *Client, f Filter, fetchLocal LocalLogFetcher) ([]Log, error) {
	typ, err := m.Classify(f)
	if err != nil {
		return nil, err
	}

	legacyFilter, localFilter := f, f
	if typ == Hybrid {
		legacyFilter, localFilter, err = m.Split(f)
		if err != nil {
			return nil, err
		}
	}

	var legacyLogs, localLogs []Log
	g, gctx := errgroup.WithContext(ctx)

	if typ == PureLegacy || typ == Hybrid {
		g.Go(func() error {
			raw, err := c.GetLogs(gctx, legacyFilter)
			if err != nil {
				return fmt.Errorf("legacyrpc: fetch legacy logs: %w", err)
			}
			return json.Unmarshal(raw, &legacyLogs)
		})
	}
	if typ == PureLocal || typ == Hybrid {
		g.Go(func() error {
			logs, err := fetchLocal(gctx, localFilter)
			if err != nil {
				return fmt.Errorf("legacyrpc: fetch local logs: %w", err)
			}
			localLogs = logs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MergeLogs(legacyLogs, localLogs), nil
}
