package httpapi

import (
	"encoding/json"
	"net/http"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/logger"
)

// writeJSON encodes body as the response payload, logging (but not
// double-reporting to the client) a failure that occurs after headers are
// already committed.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response body", "error", err)
	}
}

// WriteError maps err through apperror.ToHTTP and writes spec.md §7's
// {"detail": string} body. A "not-found-path" result is never routed
// through here — see apperror.Error's doc comment.
func WriteError(w http.ResponseWriter, err error) {
	status, detail := apperror.ToHTTP(err)
	writeJSON(w, status, map[string]string{"detail": detail})
}

// vertexView is the JSON projection of a graphmodel.Vertex used throughout
// §6's responses.
type vertexView struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Name      string         `json:"name,omitempty"`
	RouterID  string         `json:"router_id,omitempty"`
	ASN       uint32         `json:"asn,omitempty"`
	Prefix    string         `json:"prefix,omitempty"`
	PrefixLen int            `json:"prefix_len,omitempty"`
	SIDs      []sidView      `json:"sids,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

type sidView struct {
	SID              string `json:"sid"`
	Algo             uint32 `json:"algo"`
	EndpointBehavior string `json:"endpoint_behavior,omitempty"`
}

func newVertexView(v *graphmodel.Vertex) *vertexView {
	if v == nil {
		return nil
	}
	sids := make([]sidView, 0, len(v.SIDs))
	for _, s := range v.SIDs {
		sids = append(sids, sidView{SID: s.SRv6SID, Algo: s.EndpointBehavior.Algo, EndpointBehavior: s.EndpointBehavior.EndpointBehavior})
	}
	return &vertexView{
		ID:        v.ID.String(),
		Kind:      v.Kind.String(),
		Name:      v.Name,
		RouterID:  v.RouterID,
		ASN:       v.ASN,
		Prefix:    v.Prefix,
		PrefixLen: v.PrefixLen,
		SIDs:      sids,
		Attrs:     v.Attrs,
	}
}

// edgeView is the JSON projection of a graphmodel.Edge.
type edgeView struct {
	ID             string   `json:"id"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	Name           string   `json:"name,omitempty"`
	Protocol       string   `json:"protocol,omitempty"`
	Latency        float64  `json:"latency,omitempty"`
	PercentUtilOut float64  `json:"percent_util_out,omitempty"`
	PercentUtilIn  float64  `json:"percent_util_in,omitempty"`
	Load           int64    `json:"load"`
	CountryCodes   []string `json:"country_codes,omitempty"`
}

func newEdgeView(e *graphmodel.Edge) *edgeView {
	if e == nil {
		return nil
	}
	return &edgeView{
		ID:             e.ID.String(),
		From:           e.From.String(),
		To:             e.To.String(),
		Name:           e.Name,
		Protocol:       e.Protocol,
		Latency:        e.Latency,
		PercentUtilOut: e.PercentUtilOut,
		PercentUtilIn:  e.PercentUtilIn,
		Load:           e.Load,
		CountryCodes:   e.CountryCodes,
	}
}

// hopView is one element of a path's "path" array (spec.md §6).
type hopView struct {
	Vertex *vertexView `json:"vertex"`
	Edge   *edgeView   `json:"edge,omitempty"`
}

func newHopViews(hops []graphmodel.Hop) []hopView {
	out := make([]hopView, 0, len(hops))
	for _, h := range hops {
		out = append(out, hopView{Vertex: newVertexView(h.Vertex), Edge: newEdgeView(h.Edge)})
	}
	return out
}

// carrierView is the JSON projection of a graphmodel.Carrier.
type carrierView struct {
	SRv6SIDList []string `json:"srv6_sid_list"`
	SRv6USID    string   `json:"srv6_usid"`
	USIDBlock   string   `json:"usid_block"`
	Algo        uint32   `json:"algo"`
}

func newCarrierView(c graphmodel.Carrier) carrierView {
	return carrierView{
		SRv6SIDList: c.SRv6SIDList,
		SRv6USID:    c.SRv6USID,
		USIDBlock:   c.USIDBlock,
		Algo:        c.Algo,
	}
}

// edgeLoadView/loadReportView project graphmodel.LoadReport.
type edgeLoadView struct {
	EdgeKey string `json:"edge_key"`
	Load    int64  `json:"load"`
}

type loadReportView struct {
	UpdatedEdges []string       `json:"updated_edges"`
	EdgeLoads    []edgeLoadView `json:"edge_loads"`
	AverageLoad  float64        `json:"average_load"`
	TotalLoad    int64          `json:"total_load"`
	EdgeCount    int            `json:"edge_count"`
	HighestLoad  edgeLoadView   `json:"highest_load"`
}

func newLoadReportView(lr graphmodel.LoadReport) loadReportView {
	loads := make([]edgeLoadView, 0, len(lr.EdgeLoads))
	for _, l := range lr.EdgeLoads {
		loads = append(loads, edgeLoadView{EdgeKey: l.EdgeKey.String(), Load: l.Load})
	}
	updated := make([]string, 0, len(lr.UpdatedEdges))
	for _, id := range lr.UpdatedEdges {
		updated = append(updated, id.String())
	}
	return loadReportView{
		UpdatedEdges: updated,
		EdgeLoads:    loads,
		AverageLoad:  lr.AverageLoad,
		TotalLoad:    lr.TotalLoad,
		EdgeCount:    lr.EdgeCount,
		HighestLoad:  edgeLoadView{EdgeKey: lr.HighestLoad.EdgeKey.String(), Load: lr.HighestLoad.Load},
	}
}

// pathResponse is the canonical shape of every shortest_path* endpoint
// (spec.md §6). Weight-specific aggregates and load_data are only set when
// relevant to the endpoint that built the response.
type pathResponse struct {
	Found        bool         `json:"found"`
	Path         []hopView    `json:"path"`
	Hopcount     int          `json:"hopcount"`
	VertexCount  int          `json:"vertex_count"`
	SourceInfo   *vertexView  `json:"source_info,omitempty"`
	DestInfo     *vertexView  `json:"destination_info,omitempty"`
	Direction    string       `json:"direction"`
	Algo         uint32       `json:"algo"`

	TotalLatency       *float64 `json:"total_latency,omitempty"`
	AverageUtilization *float64 `json:"average_utilization,omitempty"`
	AverageLoad        *float64 `json:"average_load,omitempty"`

	SRv6Data *carrierView    `json:"srv6_data,omitempty"`
	LoadData *loadReportView `json:"load_data,omitempty"`
}

// newPathResponse builds the canonical path envelope. carrier is nil when
// the path was not found (uSID synthesis needs a reachable vertex set).
func newPathResponse(p *graphmodel.Path, carrier *graphmodel.Carrier) pathResponse {
	resp := pathResponse{
		Found:              p.Found,
		Path:               newHopViews(p.Hops),
		Hopcount:           p.Hopcount,
		VertexCount:        len(p.Hops),
		Direction:          string(p.Direction),
		Algo:               p.Algo,
		TotalLatency:       p.TotalLatency,
		AverageUtilization: p.AverageUtilization,
		AverageLoad:        p.AverageLoad,
	}
	vertices := p.Vertices()
	if len(vertices) > 0 {
		resp.SourceInfo = newVertexView(vertices[0])
		resp.DestInfo = newVertexView(vertices[len(vertices)-1])
	}
	if carrier != nil {
		v := newCarrierView(*carrier)
		resp.SRv6Data = &v
	}
	return resp
}

// collectionMetaView projects graphstore.CollectionMeta.
type collectionMetaView struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Status string `json:"status,omitempty"`
	Count  int64  `json:"count"`
}

func newCollectionMetaView(m graphstore.CollectionMeta) collectionMetaView {
	return collectionMetaView{Name: m.Name, Kind: string(m.Kind), Status: m.Status, Count: m.Count}
}
