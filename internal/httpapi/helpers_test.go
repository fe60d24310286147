package httpapi

import (
	"context"

	"jalapeno/internal/apperror"
	"jalapeno/internal/audit"
	"jalapeno/internal/config"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/ratelimit"
)

// fakeStore is an in-memory graphstore.Store stand-in, grounded on the same
// pattern internal/rpo/rpo_test.go uses: embed the interface so only the
// methods a given test actually exercises need an implementation.
type fakeStore struct {
	graphstore.Store

	collections []graphstore.CollectionMeta
	vertices    map[string][]*graphmodel.Vertex
	graphs      map[string]*graphmodel.Graph
	endpoints   map[string][]graphstore.Endpoint

	updatedEdge string
	updatedLoad int64
	healthErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vertices:  make(map[string][]*graphmodel.Vertex),
		graphs:    make(map[string]*graphmodel.Graph),
		endpoints: make(map[string][]graphstore.Endpoint),
	}
}

func (f *fakeStore) HasCollection(ctx context.Context, name string) (bool, error) {
	return graphstore.ValidateCollection(name) == nil, nil
}

func (f *fakeStore) ListCollections(ctx context.Context) ([]graphstore.CollectionMeta, error) {
	if f.collections != nil {
		return f.collections, nil
	}
	out := make([]graphstore.CollectionMeta, 0, len(graphstore.KnownCollections))
	for _, m := range graphstore.KnownCollections {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) GetVertex(ctx context.Context, collection, key string) (*graphmodel.Vertex, error) {
	id := graphmodel.VertexID(collection + "/" + key)
	for _, v := range f.vertices[collection] {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeStore) GetEdge(ctx context.Context, collection, key string) (*graphmodel.Edge, error) {
	g, ok := f.graphs[collection]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	id := graphmodel.EdgeID(collection + "/" + key)
	if e, ok := g.GetEdge(id); ok {
		return e, nil
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeStore) ListVertices(ctx context.Context, collection string, limit, skip int) ([]*graphmodel.Vertex, error) {
	all := f.vertices[collection]
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeStore) ListVerticesByAlgo(ctx context.Context, collection string, algo uint32) ([]*graphmodel.Vertex, error) {
	var out []*graphmodel.Vertex
	for _, v := range f.vertices[collection] {
		if v.ParticipatesInAlgo(algo) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEdges(ctx context.Context, collection string, limit int) ([]*graphmodel.Edge, error) {
	g, ok := f.graphs[collection]
	if !ok {
		return nil, nil
	}
	out := make([]*graphmodel.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) LoadGraph(ctx context.Context, collection string) (*graphmodel.Graph, error) {
	g, ok := f.graphs[collection]
	if !ok {
		return nil, apperror.New(apperror.KindNotFound, "unknown graph collection")
	}
	return g, nil
}

func (f *fakeStore) UpdateEdgeLoad(ctx context.Context, collection, key string, newLoad int64) error {
	f.updatedEdge = collection + "/" + key
	f.updatedLoad = newLoad
	if g, ok := f.graphs[collection]; ok {
		if e, ok := g.GetEdge(graphmodel.EdgeID(collection + "/" + key)); ok {
			e.Load = newLoad
		}
	}
	return nil
}

func (f *fakeStore) ScanEndpoints(ctx context.Context, collection string, keys []string, limit int) ([]graphstore.Endpoint, error) {
	all := f.endpoints[collection]
	if keys == nil {
		if limit > 0 && limit < len(all) {
			return all[:limit], nil
		}
		return all, nil
	}
	var out []graphstore.Endpoint
	for _, k := range keys {
		for _, ep := range all {
			if ep.ID.Key() == k {
				out = append(out, ep)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) Close() {}

func (f *fakeStore) HealthCheck(ctx context.Context) error { return f.healthErr }

// addVertex registers v under its own collection for ListVertices/GetVertex.
func (f *fakeStore) addVertex(v *graphmodel.Vertex) {
	f.vertices[v.ID.Collection()] = append(f.vertices[v.ID.Collection()], v)
}

// buildTestGraph is the small three-vertex, two-edge topology reused across
// handler tests: a straight line src -> mid -> dst.
func buildTestGraph(collection string) *graphmodel.Graph {
	g := graphmodel.NewGraph(collection)
	g.AddVertex(&graphmodel.Vertex{ID: "igp_nodes/src", Kind: graphmodel.VertexKindIGPNode, Name: "src"})
	g.AddVertex(&graphmodel.Vertex{ID: "igp_nodes/mid", Kind: graphmodel.VertexKindIGPNode, Name: "mid"})
	g.AddVertex(&graphmodel.Vertex{ID: "igp_nodes/dst", Kind: graphmodel.VertexKindIGPNode, Name: "dst"})
	g.AddEdge(&graphmodel.Edge{ID: graphmodel.EdgeID(collection + "/e1"), From: "igp_nodes/src", To: "igp_nodes/mid", Latency: 10})
	g.AddEdge(&graphmodel.Edge{ID: graphmodel.EdgeID(collection + "/e2"), From: "igp_nodes/mid", To: "igp_nodes/dst", Latency: 20})
	return g
}

// testServer wires a Server over a fakeStore with every optional dependency
// present but inert (noop audit, in-memory rate limiter), suitable for
// driving requests through a real net/http.ServeMux so r.Pattern and
// r.PathValue are populated the way production requests see them.
func testServer(store *fakeStore) (*Server, *config.Config) {
	cfg := &config.Config{}
	cfg.Metrics.Enabled = false
	cfg.LoadUpdate.DefaultIncrement = 1
	cfg.RateLimit.Requests = 1000
	cfg.RateLimit.Window = 0

	limiter, err := ratelimit.New(&ratelimit.Config{Requests: 1000, Backend: "memory"})
	if err != nil {
		panic(err)
	}
	limits := ratelimit.NewRouteLimits(&ratelimit.Config{Requests: 1000})

	s := NewServer(store, cfg, limiter, limits, &audit.NoopLogger{})
	return s, cfg
}
