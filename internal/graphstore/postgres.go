package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jalapeno/internal/apperror"
	"jalapeno/internal/config"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/logger"
)

// PostgresStore is the production Store, backed by a pooled pgx connection.
// Grounded on the teacher's pkg/database.PostgresDB (pool construction,
// HealthCheck, connection-string building).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens (and pings) a connection pool sized from cfg.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendUnavailable, "failed to parse database DSN")
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolCfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendUnavailable, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperror.Wrap(err, apperror.KindBackendUnavailable, "failed to ping database")
	}

	logger.Info("connected to postgres graph store", "server", cfg.Server, "database", cfg.Name)

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
	logger.Info("postgres graph store connection pool closed")
}

func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var result int
	if err := s.pool.QueryRow(ctx, "SELECT 1").Scan(&result); err != nil {
		return apperror.Wrap(err, apperror.KindBackendUnavailable, "health check failed")
	}
	return nil
}

func (s *PostgresStore) HasCollection(ctx context.Context, name string) (bool, error) {
	_, ok := KnownCollections[name]
	return ok, nil
}

func (s *PostgresStore) ListCollections(ctx context.Context) ([]CollectionMeta, error) {
	out := make([]CollectionMeta, 0, len(KnownCollections))
	for _, meta := range KnownCollections {
		table := "vertices"
		if meta.Kind == CollectionEdge {
			table = "edges"
		}
		var count int64
		query := fmt.Sprintf("SELECT count(*) FROM %s WHERE collection = $1", table) //nolint:gosec // table is one of two fixed literals, not user input
		if err := s.pool.QueryRow(ctx, query, meta.Name).Scan(&count); err != nil {
			return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to count collection")
		}
		meta.Count = count
		meta.Status = "loaded"
		out = append(out, meta)
	}
	return out, nil
}

func scanVertex(row pgx.Row) (*graphmodel.Vertex, error) {
	var (
		collection, key, kind, name, routerID, prefix string
		asn                                            int64
		prefixLen                                      int
		sidsRaw                                        []byte
	)
	if err := row.Scan(&collection, &key, &kind, &name, &routerID, &asn, &prefix, &prefixLen, &sidsRaw); err != nil {
		return nil, err
	}
	v := &graphmodel.Vertex{
		ID:        graphmodel.VertexID(collection + "/" + key),
		Kind:      parseVertexKind(kind),
		Name:      name,
		RouterID:  routerID,
		ASN:       uint32(asn),
		Prefix:    prefix,
		PrefixLen: prefixLen,
	}
	if len(sidsRaw) > 0 {
		_ = json.Unmarshal(sidsRaw, &v.SIDs)
	}
	return v, nil
}

func parseVertexKind(s string) graphmodel.VertexKind {
	switch s {
	case "igp_node":
		return graphmodel.VertexKindIGPNode
	case "bgp_node":
		return graphmodel.VertexKindBGPNode
	case "host":
		return graphmodel.VertexKindHost
	case "prefix":
		return graphmodel.VertexKindPrefix
	case "l3vpn_node":
		return graphmodel.VertexKindL3VPNNode
	case "l3vpn_prefix":
		return graphmodel.VertexKindL3VPNPrefix
	default:
		return graphmodel.VertexKindUnspecified
	}
}

const vertexColumns = "collection, key, kind, name, router_id, asn, prefix, prefix_len, sids"

func (s *PostgresStore) GetVertex(ctx context.Context, collection, key string) (*graphmodel.Vertex, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx,
		"SELECT "+vertexColumns+" FROM vertices WHERE collection = $1 AND key = $2",
		collection, key)
	v, err := scanVertex(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.New(apperror.KindNotFound, "vertex not found")
		}
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to read vertex")
	}
	return v, nil
}

const edgeColumns = "collection, key, from_vertex, to_vertex, name, protocol, latency, percent_util_out, percent_util_in, load, max_link_bandwidth, max_reservable_link_bandwidth, unidir_link_delay, country_codes, sids"

func scanEdge(row pgx.Row) (*graphmodel.Edge, error) {
	var (
		collection, key, from, to, name, protocol string
		latency, utilOut, utilIn                  float64
		load                                      int64
		maxBW, maxResBW, delay                    float64
		countriesRaw, sidsRaw                     []byte
	)
	if err := row.Scan(&collection, &key, &from, &to, &name, &protocol, &latency, &utilOut, &utilIn,
		&load, &maxBW, &maxResBW, &delay, &countriesRaw, &sidsRaw); err != nil {
		return nil, err
	}
	e := &graphmodel.Edge{
		ID:                         graphmodel.EdgeID(collection + "/" + key),
		From:                       graphmodel.VertexID(from),
		To:                         graphmodel.VertexID(to),
		Name:                       name,
		Protocol:                   protocol,
		Latency:                    latency,
		PercentUtilOut:             utilOut,
		PercentUtilIn:              utilIn,
		Load:                       load,
		MaxLinkBandwidth:           maxBW,
		MaxReservableLinkBandwidth: maxResBW,
		UnidirLinkDelay:            delay,
	}
	if len(countriesRaw) > 0 {
		_ = json.Unmarshal(countriesRaw, &e.CountryCodes)
	}
	if len(sidsRaw) > 0 {
		_ = json.Unmarshal(sidsRaw, &e.SIDs)
	}
	return e, nil
}

func (s *PostgresStore) GetEdge(ctx context.Context, collection, key string) (*graphmodel.Edge, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx,
		"SELECT "+edgeColumns+" FROM edges WHERE collection = $1 AND key = $2",
		collection, key)
	e, err := scanEdge(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.New(apperror.KindNotFound, "edge not found")
		}
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to read edge")
	}
	return e, nil
}

func (s *PostgresStore) ListVertices(ctx context.Context, collection string, limit, skip int) ([]*graphmodel.Vertex, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+vertexColumns+" FROM vertices WHERE collection = $1 ORDER BY key OFFSET $2 LIMIT $3",
		collection, skip, limit)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to list vertices")
	}
	defer rows.Close()

	var out []*graphmodel.Vertex
	for rows.Next() {
		v, err := scanVertex(rows)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to scan vertex")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListVerticesByAlgo(ctx context.Context, collection string, algo uint32) ([]*graphmodel.Vertex, error) {
	all, err := s.ListVertices(ctx, collection, 0, 0)
	if err != nil {
		return nil, err
	}
	var out []*graphmodel.Vertex
	for _, v := range all {
		if v.ParticipatesInAlgo(algo) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *PostgresStore) ListEdges(ctx context.Context, collection string, limit int) ([]*graphmodel.Edge, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+edgeColumns+" FROM edges WHERE collection = $1 ORDER BY key LIMIT $2",
		collection, limit)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to list edges")
	}
	defer rows.Close()

	var out []*graphmodel.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to scan edge")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LoadGraph materializes every edge of collection plus every vertex those
// edges reference, as a single in-memory graphmodel.Graph for
// internal/pathengine to search.
func (s *PostgresStore) LoadGraph(ctx context.Context, collection string) (*graphmodel.Graph, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	if !IsEdgeCollection(collection) {
		return nil, apperror.NewField(apperror.KindValidation, "collection is not a graph (edge) collection", "graph")
	}

	rows, err := s.pool.Query(ctx, "SELECT "+edgeColumns+" FROM edges WHERE collection = $1", collection)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to load graph edges")
	}
	defer rows.Close()

	g := graphmodel.NewGraph(collection)
	seen := map[graphmodel.VertexID]struct{}{}
	var toFetch []graphmodel.VertexID

	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to scan graph edge")
		}
		g.AddEdge(e)
		for _, vid := range []graphmodel.VertexID{e.From, e.To} {
			if _, ok := seen[vid]; !ok {
				seen[vid] = struct{}{}
				toFetch = append(toFetch, vid)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to read graph edges")
	}

	for _, vid := range toFetch {
		v, err := s.GetVertex(ctx, vid.Collection(), vid.Key())
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				continue // dangling endpoint: the vertex is skipped, the edge is kept
			}
			return nil, err
		}
		g.AddVertex(v)
	}

	return g, nil
}

func (s *PostgresStore) UpdateEdgeLoad(ctx context.Context, collection, key string, newLoad int64) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE edges SET load = $1 WHERE collection = $2 AND key = $3",
		newLoad, collection, key)
	if err != nil {
		return apperror.Wrap(err, apperror.KindBackendError, "failed to update edge load")
	}
	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.KindNotFound, "edge not found")
	}
	return nil
}

func (s *PostgresStore) ScanEndpoints(ctx context.Context, collection string, keys []string, limit int) ([]Endpoint, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	var rows pgx.Rows
	var err error
	if len(keys) > 0 {
		rows, err = s.pool.Query(ctx,
			"SELECT key, attrs FROM endpoints WHERE collection = $1 AND key = ANY($2)",
			collection, keys)
	} else {
		if limit <= 0 {
			limit = 10000
		}
		rows, err = s.pool.Query(ctx,
			"SELECT key, attrs FROM endpoints WHERE collection = $1 ORDER BY key LIMIT $2",
			collection, limit)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to scan endpoints")
	}
	defer rows.Close()

	var out []Endpoint
	for rows.Next() {
		var key string
		var attrsRaw []byte
		if err := rows.Scan(&key, &attrsRaw); err != nil {
			return nil, apperror.Wrap(err, apperror.KindBackendError, "failed to scan endpoint")
		}
		attrs := map[string]any{}
		if len(attrsRaw) > 0 {
			_ = json.Unmarshal(attrsRaw, &attrs)
		}
		out = append(out, Endpoint{ID: graphmodel.VertexID(collection + "/" + key), Attrs: attrs})
	}
	return out, rows.Err()
}
