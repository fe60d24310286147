// Package loadupdate implements the Load Updater of spec.md §4.5: a
// two-pass, intentionally non-atomic counter increment over every edge on a
// computed path. Grounded verbatim on
// original_source/api/v1/app/utils/load_processor.py's process_load_data:
// pass one reads-then-writes each edge's load (tracking the path-wide
// maximum as it goes, from the just-written value); pass two re-reads every
// edge to compute the path-wide total/average. Nothing is reported as an
// error: an edge that fails to read or write is skipped, and a canceled
// context during pass one yields an empty report — the teacher function
// returns an error-tagged dict on exception, never raises.
package loadupdate

import (
	"context"

	"jalapeno/internal/graphmodel"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/logger"
)

// DefaultIncrement is used when the caller does not override it; spec.md §9
// resolves the increment as a config-only value (config.LoadUpdateConfig),
// never a per-request parameter.
const DefaultIncrement int64 = 10

// Update applies load_increment to every edge hop of path within collection,
// then recomputes the path-wide load report. Update has no error return: an
// edge that can no longer be read or written is simply skipped, matching
// the teacher's try/except-wraps-everything behavior, and a context canceled
// during pass one returns an empty LoadReport.
func Update(ctx context.Context, store graphstore.Store, collection string, path *graphmodel.Path, loadIncrement int64) graphmodel.LoadReport {
	if loadIncrement <= 0 {
		loadIncrement = DefaultIncrement
	}

	edges := path.Edges()
	if len(edges) == 0 {
		return graphmodel.LoadReport{}
	}

	// Pass one: read-modify-write each edge's load, tracking the running
	// maximum from the value just written (not a later re-read), exactly as
	// the teacher's highest_load bookkeeping does.
	var updated []graphmodel.EdgeID
	var highest graphmodel.EdgeLoad

	for _, e := range edges {
		select {
		case <-ctx.Done():
			return graphmodel.LoadReport{}
		default:
		}

		current, err := store.GetEdge(ctx, collection, e.ID.Key())
		if err != nil {
			logger.Warn("load update: skipping unreadable edge", "edge", e.ID, "error", err)
			continue
		}

		newLoad := current.Load + loadIncrement
		if err := store.UpdateEdgeLoad(ctx, collection, e.ID.Key(), newLoad); err != nil {
			logger.Warn("load update: write failed", "edge", e.ID, "error", err)
			continue
		}

		updated = append(updated, e.ID)
		if newLoad > highest.Load {
			highest = graphmodel.EdgeLoad{EdgeKey: e.ID, Load: newLoad}
		}
	}

	// Pass two: re-read every edge on the path (regardless of whether pass
	// one's write for it succeeded) to compute the path-wide total/average —
	// deliberately re-reading rather than reusing pass-one values, so a
	// concurrent writer's update is reflected (spec.md §4.5 concurrency note).
	var totalLoad int64
	var edgeLoads []graphmodel.EdgeLoad
	edgeCount := 0

	for _, e := range edges {
		current, err := store.GetEdge(ctx, collection, e.ID.Key())
		if err != nil {
			logger.Warn("load update: skipping unreadable edge on recompute", "edge", e.ID, "error", err)
			continue
		}
		totalLoad += current.Load
		edgeCount++
		edgeLoads = append(edgeLoads, graphmodel.EdgeLoad{EdgeKey: e.ID, Load: current.Load})
	}

	var avgLoad float64
	if edgeCount > 0 {
		avgLoad = float64(totalLoad) / float64(edgeCount)
	}

	return graphmodel.LoadReport{
		UpdatedEdges: updated,
		EdgeLoads:    edgeLoads,
		AverageLoad:  avgLoad,
		TotalLoad:    totalLoad,
		EdgeCount:    edgeCount,
		HighestLoad:  highest,
	}
}
