// Package rpo implements the Resource Path Optimization Selector of
// spec.md §4.6: pick the best candidate endpoint from a collection (or an
// explicit list) by a closed metric table, then compute the path to it.
// Grounded verbatim on original_source/api/v1/app/routes/rpo.py: the
// SUPPORTED_METRICS table, the minimize/maximize/exact_match selection
// logic (skip candidates with no value for numeric metrics, first-match
// wins an exact_match, min()/max() keeps Python's leftmost-candidate tie
// break), and the "path computation failure never fails the whole
// request" try/except around get_shortest_path.
package rpo

import (
	"context"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/pathengine"
)

// Strategy is the optimization strategy bound to a metric.
type Strategy string

const (
	StrategyMinimize   Strategy = "minimize"
	StrategyMaximize   Strategy = "maximize"
	StrategyExactMatch Strategy = "exact_match"
)

// MetricKind is the value type a metric's Attrs entry carries.
type MetricKind string

const (
	MetricNumeric MetricKind = "numeric"
	MetricString  MetricKind = "string"
)

// Metric describes one entry of the closed SUPPORTED_METRICS table.
type Metric struct {
	Kind     MetricKind
	Optimize Strategy
}

// SupportedMetrics is the closed table of metrics the selector understands,
// transcribed verbatim from the teacher route's SUPPORTED_METRICS dict —
// this table is closed deliberately; an unlisted metric name is always a
// validation error, never silently accepted.
var SupportedMetrics = map[string]Metric{
	"cpu_utilization":         {Kind: MetricNumeric, Optimize: StrategyMinimize},
	"gpu_utilization":         {Kind: MetricNumeric, Optimize: StrategyMinimize},
	"memory_utilization":      {Kind: MetricNumeric, Optimize: StrategyMinimize},
	"time_to_first_token":     {Kind: MetricNumeric, Optimize: StrategyMinimize},
	"cost_per_million_tokens": {Kind: MetricNumeric, Optimize: StrategyMinimize},
	"cost_per_hour":           {Kind: MetricNumeric, Optimize: StrategyMinimize},
	"gpu_model":               {Kind: MetricString, Optimize: StrategyExactMatch},
	"language_model":          {Kind: MetricString, Optimize: StrategyExactMatch},
	"response_time":           {Kind: MetricNumeric, Optimize: StrategyMinimize},
}

// Request bundles a selection query: a candidate pool (full collection scan
// when Keys is nil, an explicit list otherwise) plus the path-computation
// parameters for the winning candidate.
type Request struct {
	Collection string
	Keys       []string // nil => full scan (select-optimal); non-nil => explicit list (select-from-list)
	Limit      int

	Metric     string
	ExactValue string

	Source            graphmodel.VertexID
	GraphCollection   string
	Direction         graphmodel.Direction
	Weight            graphmodel.Weight
	Algo              uint32
	ExcludedCountries map[string]struct{}
}

// Result is the response shape for both RPO endpoints (spec.md §6).
type Result struct {
	SelectedEndpoint        graphstore.Endpoint
	Metric                  string
	MetricValue             any
	OptimizationStrategy    Strategy
	Algo                    uint32
	TotalEndpointsEvaluated int
	ValidEndpointsCount     int
	Path                    *graphmodel.Path
}

// Select runs the full RPO procedure: validate, materialize candidates,
// pick the winner, compute its path. Validation failures (unknown metric,
// missing exact_match value, empty candidate pool, no valid candidate) are
// *apperror.Error; a path-computation failure is not — it surfaces as
// Result.Path.Found == false, per the teacher's non-fatal try/except.
func Select(ctx context.Context, store graphstore.Store, req Request) (*Result, error) {
	metric, ok := SupportedMetrics[req.Metric]
	if !ok {
		return nil, apperror.NewField(apperror.KindValidation, "unsupported metric", "metric").
			WithDetails("metric", req.Metric)
	}
	if metric.Optimize == StrategyExactMatch && req.ExactValue == "" {
		return nil, apperror.NewField(apperror.KindValidation, "value is required for an exact_match metric", "value")
	}

	candidates, err := store.ScanEndpoints(ctx, req.Collection, req.Keys, req.Limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperror.New(apperror.KindNotFound, "no endpoints found")
	}

	winner, value, validCount, err := selectCandidate(candidates, req.Metric, metric, req.ExactValue)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SelectedEndpoint:        winner,
		Metric:                  req.Metric,
		MetricValue:             value,
		OptimizationStrategy:    metric.Optimize,
		Algo:                    req.Algo,
		TotalEndpointsEvaluated: len(candidates),
		ValidEndpointsCount:     validCount,
	}

	result.Path = computePath(ctx, store, req, winner.ID)
	return result, nil
}

// selectCandidate applies the strategy in teacher candidate order: the
// first match for exact_match, Python-min()/max()-equivalent leftmost-tie
// selection for minimize/maximize.
func selectCandidate(candidates []graphstore.Endpoint, metricName string, metric Metric, exactValue string) (graphstore.Endpoint, any, int, error) {
	switch metric.Optimize {
	case StrategyExactMatch:
		for _, ep := range candidates {
			if v, ok := ep.Attrs[metricName]; ok && toString(v) == exactValue {
				return ep, v, 1, nil
			}
		}
		return graphstore.Endpoint{}, nil, 0, apperror.New(apperror.KindNotFound, "no endpoint matches the requested value")

	case StrategyMinimize, StrategyMaximize:
		var valid []graphstore.Endpoint
		for _, ep := range candidates {
			if _, ok := ep.Attrs[metricName]; ok {
				valid = append(valid, ep)
			}
		}
		if len(valid) == 0 {
			return graphstore.Endpoint{}, nil, 0, apperror.New(apperror.KindNotFound, "no endpoint has a valid value for this metric")
		}

		best := valid[0]
		bestVal, _ := toFloat(best.Attrs[metricName])
		for _, ep := range valid[1:] {
			v, ok := toFloat(ep.Attrs[metricName])
			if !ok {
				continue
			}
			if (metric.Optimize == StrategyMinimize && v < bestVal) ||
				(metric.Optimize == StrategyMaximize && v > bestVal) {
				best, bestVal = ep, v
			}
		}
		return best, best.Attrs[metricName], len(valid), nil

	default:
		return graphstore.Endpoint{}, nil, 0, apperror.New(apperror.KindInternal, "unknown optimization strategy")
	}
}

// computePath mirrors the teacher's "path failure never fails the request"
// behavior: any error or unreachable destination yields Found: false rather
// than propagating.
func computePath(ctx context.Context, store graphstore.Store, req Request, destination graphmodel.VertexID) *graphmodel.Path {
	g, err := store.LoadGraph(ctx, req.GraphCollection)
	if err != nil {
		return &graphmodel.Path{Found: false, Direction: req.Direction, Algo: req.Algo}
	}
	pathReq := pathengine.Request{
		Graph:             g,
		Source:            req.Source,
		Destination:       destination,
		Direction:         req.Direction,
		Weight:            req.Weight,
		Algo:              req.Algo,
		ExcludedCountries: req.ExcludedCountries,
	}
	return pathengine.ShortestPath(ctx, pathReq)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
