package pathengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalapeno/internal/graphmodel"
)

// linearGraph builds A-B-C-D with a shortcut A-D, all latency-weighted, so
// the shortest path by latency is the three-hop A-B-C-D route (total 3)
// while the direct A-D edge (latency 10) survives as an alternate.
func linearGraph(t *testing.T) *graphmodel.Graph {
	t.Helper()
	g := graphmodel.NewGraph("test")

	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddVertex(&graphmodel.Vertex{ID: graphmodel.VertexID(id), Kind: graphmodel.VertexKindHost})
	}

	g.AddEdge(&graphmodel.Edge{ID: "ab", From: "A", To: "B", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "bc", From: "B", To: "C", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "cd", From: "C", To: "D", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "ad", From: "A", To: "D", Latency: 10})

	return g
}

func TestShortestPath_PrefersLowerTotalWeight(t *testing.T) {
	g := linearGraph(t)
	req := Request{
		Graph:       g,
		Source:      "A",
		Destination: "D",
		Direction:   graphmodel.DirectionAny,
		Weight:      graphmodel.WeightLatency,
	}

	path := ShortestPath(context.Background(), req)
	require.True(t, path.Found)
	assert.Equal(t, 3, path.Hopcount)
	require.NotNil(t, path.TotalLatency)
	assert.Equal(t, 3.0, *path.TotalLatency)
}

func TestShortestPath_SourceEqualsDestination(t *testing.T) {
	g := linearGraph(t)
	req := Request{Graph: g, Source: "A", Destination: "A", Direction: graphmodel.DirectionAny}

	path := ShortestPath(context.Background(), req)
	require.True(t, path.Found)
	assert.Equal(t, 0, path.Hopcount)
	assert.Nil(t, path.TotalLatency)
	assert.Len(t, path.Hops, 1)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := graphmodel.NewGraph("test")
	g.AddVertex(&graphmodel.Vertex{ID: "A"})
	g.AddVertex(&graphmodel.Vertex{ID: "Z"})

	path := ShortestPath(context.Background(), Request{Graph: g, Source: "A", Destination: "Z", Direction: graphmodel.DirectionAny})
	assert.False(t, path.Found)
}

func TestShortestPath_NoFallbackWhenAlgoUnsatisfiable(t *testing.T) {
	g := linearGraph(t)
	for _, id := range []string{"A", "B", "C", "D"} {
		v, _ := g.GetVertex(graphmodel.VertexID(id))
		v.Kind = graphmodel.VertexKindIGPNode
	}
	// No vertex carries a SID for algo 128, so every constrained search must
	// fail closed rather than silently falling back to an unconstrained result.
	req := Request{
		Graph:       g,
		Source:      "A",
		Destination: "D",
		Direction:   graphmodel.DirectionAny,
		Weight:      graphmodel.WeightLatency,
		Algo:        128,
	}

	path := ShortestPath(context.Background(), req)
	assert.False(t, path.Found)
}

func TestBestPaths_OrdersByWeightAndRespectsLimit(t *testing.T) {
	g := linearGraph(t)
	req := Request{
		Graph:       g,
		Source:      "A",
		Destination: "D",
		Direction:   graphmodel.DirectionAny,
		Weight:      graphmodel.WeightLatency,
	}

	result := BestPaths(context.Background(), req, 2)
	require.True(t, result.Found)
	require.Len(t, result.Paths, 2)
	assert.LessOrEqual(t, *result.Paths[0].TotalLatency, *result.Paths[1].TotalLatency)
}

func TestNextBestPaths_GroupsByHopcountRelativeToShortest(t *testing.T) {
	g := graphmodel.NewGraph("test")
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		g.AddVertex(&graphmodel.Vertex{ID: graphmodel.VertexID(id)})
	}
	g.AddEdge(&graphmodel.Edge{ID: "ad", From: "A", To: "D", Latency: 5})
	g.AddEdge(&graphmodel.Edge{ID: "ab", From: "A", To: "B", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "bd", From: "B", To: "D", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "ac", From: "A", To: "C", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "ce", From: "C", To: "E", Latency: 1})
	g.AddEdge(&graphmodel.Edge{ID: "ed", From: "E", To: "D", Latency: 1})

	req := Request{Graph: g, Source: "A", Destination: "D", Direction: graphmodel.DirectionAny, Weight: graphmodel.WeightLatency}

	result := NextBestPaths(context.Background(), req, 2, 2)
	require.True(t, result.Found)
	assert.Equal(t, 2, result.ShortestPath.Hopcount)
	for _, p := range result.SameHopcountPaths {
		assert.Equal(t, 2, p.Hopcount)
	}
	for _, p := range result.PlusOneHopcountPaths {
		assert.Equal(t, 3, p.Hopcount)
	}
}
