package pathengine

import (
	"context"
	"sort"

	"jalapeno/internal/graphmodel"
)

// candidate is one fully-materialized path produced during a Yen's search,
// kept alongside its total weight for ordering and dedup.
type candidate struct {
	hops   []graphmodel.Hop
	weight float64
}

func (c candidate) vertexKey() string {
	var key string
	for _, h := range c.hops {
		key += string(h.Vertex.ID) + "|"
	}
	return key
}

// kShortestPaths runs Yen's algorithm on top of the dijkstra core, returning
// up to k loopless paths from source to target in non-decreasing weight
// order, tie-broken by hop count then lexical vertex sequence for
// determinism. There is no teacher equivalent for K-shortest-paths search —
// authored fresh in the same container/heap + deterministic-tie-break idiom
// as the single-source core above.
func kShortestPaths(
	ctx context.Context,
	g *graphmodel.Graph,
	source, target graphmodel.VertexID,
	dir graphmodel.Direction,
	weight graphmodel.Weight,
	k int,
) []candidate {
	if k <= 0 {
		return nil
	}

	first := dijkstra(ctx, g, source, dir, weight, nil, nil)
	if first.Canceled {
		return nil
	}
	firstHops := reconstruct(g, first, source, target)
	if firstHops == nil {
		return nil
	}

	found := []candidate{{hops: firstHops, weight: totalWeight(firstHops, weight)}}
	seen := map[string]struct{}{found[0].vertexKey(): {}}

	var potential []candidate

	for len(found) < k {
		select {
		case <-ctx.Done():
			return found
		default:
		}

		prev := found[len(found)-1].hops

		for i := 0; i < len(prev)-1; i++ {
			spurNode := prev[i].Vertex.ID
			rootPath := prev[:i+1]

			excludedEdge := map[graphmodel.EdgeID]struct{}{}
			for _, c := range found {
				if hasSamePrefix(c.hops, rootPath) && i < len(c.hops)-1 {
					excludedEdge[c.hops[i].Edge.ID] = struct{}{}
				}
			}

			excludedVertex := map[graphmodel.VertexID]struct{}{}
			for _, h := range rootPath[:len(rootPath)-1] {
				excludedVertex[h.Vertex.ID] = struct{}{}
			}

			spurResult := dijkstra(ctx, g, spurNode, dir, weight, excludedVertex, excludedEdge)
			if spurResult.Canceled {
				return found
			}
			spurHops := reconstruct(g, spurResult, spurNode, target)
			if spurHops == nil {
				continue
			}

			totalHops := append(append([]graphmodel.Hop{}, rootPath[:len(rootPath)-1]...), spurHops...)
			cand := candidate{hops: totalHops, weight: totalWeight(totalHops, weight)}

			key := cand.vertexKey()
			if _, dup := seen[key]; dup {
				continue
			}
			if !containsCandidate(potential, key) {
				potential = append(potential, cand)
			}
		}

		if len(potential) == 0 {
			break
		}

		sort.SliceStable(potential, func(i, j int) bool {
			if potential[i].weight != potential[j].weight {
				return potential[i].weight < potential[j].weight
			}
			if len(potential[i].hops) != len(potential[j].hops) {
				return len(potential[i].hops) < len(potential[j].hops)
			}
			return potential[i].vertexKey() < potential[j].vertexKey()
		})

		next := potential[0]
		potential = potential[1:]
		seen[next.vertexKey()] = struct{}{}
		found = append(found, next)
	}

	return found
}

func hasSamePrefix(hops, prefix []graphmodel.Hop) bool {
	if len(hops) < len(prefix) {
		return false
	}
	for i := range prefix {
		if hops[i].Vertex.ID != prefix[i].Vertex.ID {
			return false
		}
	}
	return true
}

func containsCandidate(pool []candidate, key string) bool {
	for _, c := range pool {
		if c.vertexKey() == key {
			return true
		}
	}
	return false
}
