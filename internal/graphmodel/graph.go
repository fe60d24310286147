// Package graphmodel defines the Vertex, Edge, Path and uSID Carrier value
// types the rest of the core operates on, plus light validation helpers.
// These are read references into graph-store data, not owned domain state —
// only Path and Carrier are created and owned per request.
package graphmodel

import "fmt"

// VertexKind distinguishes the small set of semantic kinds the core reads
// fields from; unknown kinds are preserved opaquely in Attrs for generic
// endpoints but rejected by typed endpoints that require a specific kind.
type VertexKind int

const (
	VertexKindUnspecified VertexKind = iota
	VertexKindIGPNode
	VertexKindBGPNode
	VertexKindHost
	VertexKindPrefix
	VertexKindL3VPNNode
	VertexKindL3VPNPrefix
)

func (k VertexKind) String() string {
	switch k {
	case VertexKindIGPNode:
		return "igp_node"
	case VertexKindBGPNode:
		return "bgp_node"
	case VertexKindHost:
		return "host"
	case VertexKindPrefix:
		return "prefix"
	case VertexKindL3VPNNode:
		return "l3vpn_node"
	case VertexKindL3VPNPrefix:
		return "l3vpn_prefix"
	default:
		return "unspecified"
	}
}

// IsIGP reports whether the algo-participation predicate of §4.2 applies to
// this vertex kind. Only IGP-kind vertices are checked for algo participation
// per spec.md §8 invariant 2 ("every IGP vertex v ... satisfies the algo
// predicate").
func (k VertexKind) IsIGP() bool { return k == VertexKindIGPNode }

// EndpointBehavior is the nested object inside a SID record.
type EndpointBehavior struct {
	Algo             uint32 `json:"algo"`
	EndpointBehavior string `json:"endpoint_behavior"`
	Flag             string `json:"flag"`
}

// SID is one entry of a vertex's ordered SID set.
type SID struct {
	SRv6SID          string           `json:"srv6_sid"`
	EndpointBehavior EndpointBehavior `json:"srv6_endpoint_behavior"`
}

// VertexID is the stable "collection/key" identity of a graph object.
type VertexID string

// Collection returns the portion of the id before the slash.
func (v VertexID) Collection() string {
	for i := 0; i < len(v); i++ {
		if v[i] == '/' {
			return string(v[:i])
		}
	}
	return string(v)
}

// Key returns the portion of the id after the slash.
func (v VertexID) Key() string {
	for i := 0; i < len(v); i++ {
		if v[i] == '/' {
			return string(v[i+1:])
		}
	}
	return ""
}

func (v VertexID) String() string { return string(v) }

// Vertex is a read reference into a graph-store document: a router, host,
// prefix, or L3VPN object.
type Vertex struct {
	ID        VertexID
	Kind      VertexKind
	Name      string
	RouterID  string
	ASN       uint32
	Prefix    string
	PrefixLen int
	SIDs      []SID
	Attrs     map[string]any // opaque passthrough for unknown-kind fields
}

// FirstSIDForAlgo returns the first SID (in the vertex's own ordering) whose
// endpoint behavior participates in algo, and whether one was found. When
// algo == 0 every vertex trivially participates (spec.md §4.2); the first
// SID present, if any, is still returned for uSID synthesis purposes.
func (v *Vertex) FirstSIDForAlgo(algo uint32) (SID, bool) {
	for _, s := range v.SIDs {
		if algo == 0 || s.EndpointBehavior.Algo == algo {
			return s, true
		}
	}
	return SID{}, false
}

// ParticipatesInAlgo implements the §4.2 Algo Filter predicate.
func (v *Vertex) ParticipatesInAlgo(algo uint32) bool {
	if algo == 0 {
		return true
	}
	for _, s := range v.SIDs {
		if s.EndpointBehavior.Algo == algo {
			return true
		}
	}
	return false
}

// EdgeID is the stable "collection/key" identity of an edge document.
type EdgeID string

// Collection returns the portion of the id before the slash.
func (e EdgeID) Collection() string {
	for i := 0; i < len(e); i++ {
		if e[i] == '/' {
			return string(e[:i])
		}
	}
	return string(e)
}

// Key returns the portion of the id after the slash.
func (e EdgeID) Key() string {
	for i := 0; i < len(e); i++ {
		if e[i] == '/' {
			return string(e[i+1:])
		}
	}
	return ""
}

func (e EdgeID) String() string { return string(e) }

// Edge is a read reference into an edge document; Load is the only field the
// core ever mutates (via internal/loadupdate).
type Edge struct {
	ID                         EdgeID
	From                       VertexID
	To                         VertexID
	Name                       string
	Protocol                   string
	Latency                    float64 // microseconds
	PercentUtilOut             float64 // 0-100
	PercentUtilIn              float64 // 0-100
	Load                       int64   // mutable back-pressure counter
	MaxLinkBandwidth           float64
	MaxReservableLinkBandwidth float64
	UnidirLinkDelay            float64
	CountryCodes               []string
	SIDs                       []SID
}

// HasCountry reports whether any of excluded appears in the edge's country
// tag set, used by the sovereignty filter (spec.md §4.3, S3).
func (e *Edge) HasCountry(excluded map[string]struct{}) bool {
	for _, c := range e.CountryCodes {
		if _, bad := excluded[c]; bad {
			return true
		}
	}
	return false
}

// Weight is the set of edge-weight attributes the Path Engine can minimize.
type Weight string

const (
	WeightNone           Weight = "none"
	WeightLatency        Weight = "latency"
	WeightPercentUtilOut Weight = "percent_util_out"
	WeightLoad           Weight = "load"
)

// Value extracts the numeric weight for e; unknown/zero attributes fall back
// to defaultWeight = 1, per spec.md §4.3 edge-case policy.
func (w Weight) Value(e *Edge) float64 {
	switch w {
	case WeightLatency:
		if e.Latency > 0 {
			return e.Latency
		}
	case WeightPercentUtilOut:
		if e.PercentUtilOut > 0 {
			return e.PercentUtilOut
		}
	case WeightLoad:
		if e.Load > 0 {
			return float64(e.Load)
		}
	}
	return 1
}

// Direction is the traversal semantics of a path query.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
	DirectionAny      Direction = "any"
)

// ValidDirection reports whether s names a known Direction.
func ValidDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionOutbound, DirectionInbound, DirectionAny:
		return Direction(s), true
	}
	return "", false
}

// Hop is one (vertex, edge) pair in a Path; Edge is nil on the terminal
// element.
type Hop struct {
	Vertex *Vertex
	Edge   *Edge
}

// Path is the ephemeral, per-request output of the Path Engine.
type Path struct {
	Found     bool
	Hops      []Hop
	Hopcount  int
	Direction Direction
	Algo      uint32

	// Aggregate edge metrics, independent of which Weight minimized the
	// path. Represented as *float64 so a zero-edge path's "no data" can be
	// distinguished from an honest zero (spec.md §9 Open Question
	// resolution: null when edge_count == 0).
	TotalLatency       *float64
	AverageUtilization *float64
	AverageLoad        *float64
}

// Vertices returns the ordered vertex sequence of the path.
func (p *Path) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(p.Hops))
	for _, h := range p.Hops {
		out = append(out, h.Vertex)
	}
	return out
}

// Edges returns the ordered edge sequence of the path (len == Hopcount).
func (p *Path) Edges() []*Edge {
	out := make([]*Edge, 0, len(p.Hops))
	for _, h := range p.Hops {
		if h.Edge != nil {
			out = append(out, h.Edge)
		}
	}
	return out
}

// Carrier is the derived SRv6 micro-SID carrier of a Path (spec.md §3/§4.4).
type Carrier struct {
	USIDBlock   string
	SRv6SIDList []string
	SRv6USID    string
	Algo        uint32
}

// LoadReport is the per-request output of the Load Updater (spec.md §4.5).
type LoadReport struct {
	UpdatedEdges []EdgeID
	EdgeLoads    []EdgeLoad
	AverageLoad  float64
	TotalLoad    int64
	EdgeCount    int
	HighestLoad  EdgeLoad
}

// EdgeLoad pairs an edge with a load value, used both for the per-edge
// report and for the path-wide maximum.
type EdgeLoad struct {
	EdgeKey EdgeID
	Load    int64
}

func (h Hop) String() string {
	if h.Edge == nil {
		return fmt.Sprintf("%s", h.Vertex.ID)
	}
	return fmt.Sprintf("%s -(%s)-> ", h.Vertex.ID, h.Edge.ID)
}
