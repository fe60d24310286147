package pathengine

import (
	"context"

	"jalapeno/internal/algofilter"
	"jalapeno/internal/graphmodel"
)

// maxKCap bounds how far the engine will widen a Yen's-algorithm search
// looking for constrained candidates before giving up (spec.md §4.3: no
// fallback to an unconstrained result — only a wider search or Found:false).
const maxKCap = 1000

// Request bundles the parameters common to every Path Engine operation.
type Request struct {
	Graph             *graphmodel.Graph
	Source            graphmodel.VertexID
	Destination       graphmodel.VertexID
	Direction         graphmodel.Direction
	Weight            graphmodel.Weight
	Algo              uint32
	ExcludedCountries map[string]struct{}
}

// constrained reports whether req carries an algo or sovereignty constraint
// that a plain Dijkstra result cannot be trusted to satisfy.
func (r Request) constrained() bool {
	return r.Algo != 0 || len(r.ExcludedCountries) > 0
}

func (r Request) satisfies(hops []graphmodel.Hop) bool {
	if r.Algo != 0 {
		vertices := make([]*graphmodel.Vertex, 0, len(hops))
		for _, h := range hops {
			vertices = append(vertices, h.Vertex)
		}
		if !algofilter.Satisfies(vertices, r.Algo) {
			return false
		}
	}
	if len(r.ExcludedCountries) > 0 {
		for _, h := range hops {
			if h.Edge != nil && h.Edge.HasCountry(r.ExcludedCountries) {
				return false
			}
		}
	}
	return true
}

// ShortestPath computes the single best path from Source to Destination
// (spec.md §4.3). Source == Destination returns a zero-hop Found path
// (edge case). No reachable path, or no candidate satisfying the algo /
// sovereignty constraints, returns Found: false. ShortestPath has no error
// return; a canceled context stops the search early and the result reflects
// what that search had reached.
func ShortestPath(ctx context.Context, req Request) *graphmodel.Path {
	if req.Source == req.Destination {
		return zeroHopPath(req)
	}

	if !req.constrained() {
		result := dijkstra(ctx, req.Graph, req.Source, req.Direction, req.Weight, nil, nil)
		hops := reconstruct(req.Graph, result, req.Source, req.Destination)
		if hops == nil {
			return notFoundPath(req)
		}
		return buildPath(hops, req)
	}

	candidates := constrainedCandidates(ctx, req, 1)
	if len(candidates) == 0 {
		return notFoundPath(req)
	}
	return buildPath(candidates[0].hops, req)
}

// BestPathsResult is the response shape for the best_paths family (spec.md
// §4.3, §6): up to limit paths in non-decreasing weight order.
type BestPathsResult struct {
	Found bool
	Paths []*graphmodel.Path
}

// BestPaths returns up to limit distinct loopless paths ordered by weight,
// each individually satisfying req's algo / sovereignty constraints. A limit
// of zero or less returns no paths and Found: false.
func BestPaths(ctx context.Context, req Request, limit int) *BestPathsResult {
	if limit <= 0 {
		return &BestPathsResult{Found: false}
	}
	if req.Source == req.Destination {
		p := zeroHopPath(req)
		if !p.Found {
			return &BestPathsResult{Found: false}
		}
		return &BestPathsResult{Found: true, Paths: []*graphmodel.Path{p}}
	}

	var candidates []candidate
	if req.constrained() {
		candidates = constrainedCandidates(ctx, req, limit)
	} else {
		candidates = kShortestPaths(ctx, req.Graph, req.Source, req.Destination, req.Direction, req.Weight, limit)
	}
	if len(candidates) == 0 {
		return &BestPathsResult{Found: false}
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	paths := make([]*graphmodel.Path, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, buildPath(c.hops, req))
	}
	return &BestPathsResult{Found: true, Paths: paths}
}

// NextBestPathResult is the response shape for the next_best_paths family
// (spec.md §4.3, §6): the shortest path plus two buckets of alternates,
// grouped by hop count relative to it.
type NextBestPathResult struct {
	Found                bool
	ShortestPath         *graphmodel.Path
	SameHopcountPaths    []*graphmodel.Path
	PlusOneHopcountPaths []*graphmodel.Path
}

// NextBestPaths computes the shortest path, then up to sameHopLimit
// alternates with an identical hop count and up to plusOneLimit alternates
// with exactly one more hop, all distinct from the shortest and from each
// other, all satisfying req's constraints.
func NextBestPaths(ctx context.Context, req Request, sameHopLimit, plusOneLimit int) *NextBestPathResult {
	shortest := ShortestPath(ctx, req)
	if !shortest.Found {
		return &NextBestPathResult{Found: false}
	}

	want := sameHopLimit + plusOneLimit + 1
	var candidates []candidate
	if req.constrained() {
		candidates = constrainedCandidates(ctx, req, want)
	} else {
		candidates = kShortestPaths(ctx, req.Graph, req.Source, req.Destination, req.Direction, req.Weight, want)
	}

	result := &NextBestPathResult{Found: true, ShortestPath: shortest}
	shortestHopcount := shortest.Hopcount

	for _, c := range candidates {
		hopcount := len(c.hops) - 1
		switch {
		case hopcount == shortestHopcount && len(result.SameHopcountPaths) < sameHopLimit:
			if !sameVertexSequence(c.hops, shortest.Hops) {
				result.SameHopcountPaths = append(result.SameHopcountPaths, buildPath(c.hops, req))
			}
		case hopcount == shortestHopcount+1 && len(result.PlusOneHopcountPaths) < plusOneLimit:
			result.PlusOneHopcountPaths = append(result.PlusOneHopcountPaths, buildPath(c.hops, req))
		}
		if len(result.SameHopcountPaths) >= sameHopLimit && len(result.PlusOneHopcountPaths) >= plusOneLimit {
			break
		}
	}

	return result
}

func sameVertexSequence(a, b []graphmodel.Hop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Vertex.ID != b[i].Vertex.ID {
			return false
		}
	}
	return true
}

func constrainedCandidates(ctx context.Context, req Request, want int) []candidate {
	kTry := want * 4
	if kTry < 20 {
		kTry = 20
	}

	for {
		raw := kShortestPaths(ctx, req.Graph, req.Source, req.Destination, req.Direction, req.Weight, kTry)

		var matched []candidate
		for _, c := range raw {
			if req.satisfies(c.hops) {
				matched = append(matched, c)
			}
		}

		if len(matched) >= want || kTry >= maxKCap || len(raw) < kTry {
			return matched
		}
		kTry *= 4
		select {
		case <-ctx.Done():
			return matched
		default:
		}
	}
}

func zeroHopPath(req Request) *graphmodel.Path {
	v, ok := req.Graph.GetVertex(req.Source)
	if !ok {
		return notFoundPath(req)
	}
	return &graphmodel.Path{
		Found:     true,
		Hops:      []graphmodel.Hop{{Vertex: v}},
		Hopcount:  0,
		Direction: req.Direction,
		Algo:      req.Algo,
	}
}

func notFoundPath(req Request) *graphmodel.Path {
	return &graphmodel.Path{Found: false, Direction: req.Direction, Algo: req.Algo}
}

// buildPath assembles the final Path, including aggregate metrics that are
// null (nil pointer) when the path has zero edges — resolving spec.md §9's
// Open Question on zero-edge aggregates.
func buildPath(hops []graphmodel.Hop, req Request) *graphmodel.Path {
	edgeCount := 0
	var totalLatency, totalUtil float64
	var totalLoad int64

	for _, h := range hops {
		if h.Edge == nil {
			continue
		}
		edgeCount++
		totalLatency += h.Edge.Latency
		totalUtil += h.Edge.PercentUtilOut
		totalLoad += h.Edge.Load
	}

	p := &graphmodel.Path{
		Found:     true,
		Hops:      hops,
		Hopcount:  edgeCount,
		Direction: req.Direction,
		Algo:      req.Algo,
	}

	if edgeCount > 0 {
		lat := totalLatency
		util := totalUtil / float64(edgeCount)
		load := float64(totalLoad) / float64(edgeCount)
		p.TotalLatency = &lat
		p.AverageUtilization = &util
		p.AverageLoad = &load
	}

	return p
}
