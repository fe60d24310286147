package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphmodel"
)

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, 201, map[string]string{"ok": "yes"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "yes", body["ok"])
}

func TestWriteError_MapsValidationKindTo400(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperror.NewField(apperror.KindValidation, "bad source", "source"))

	assert.Equal(t, 400, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad source", body["detail"])
}

func TestWriteError_MapsNotFoundTo404(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperror.ErrNotFound)
	assert.Equal(t, 404, rec.Code)
}

func TestNewVertexView_ProjectsSIDFieldsCorrectly(t *testing.T) {
	v := &graphmodel.Vertex{
		ID:   "igp_nodes/r1",
		Kind: graphmodel.VertexKindIGPNode,
		Name: "r1",
		SIDs: []graphmodel.SID{
			{SRv6SID: "fc00:0:1::", EndpointBehavior: graphmodel.EndpointBehavior{Algo: 128, EndpointBehavior: "End"}},
		},
	}
	view := newVertexView(v)
	require.NotNil(t, view)
	assert.Equal(t, "igp_nodes/r1", view.ID)
	assert.Equal(t, "igp_node", view.Kind)
	require.Len(t, view.SIDs, 1)
	assert.Equal(t, "fc00:0:1::", view.SIDs[0].SID)
	assert.Equal(t, uint32(128), view.SIDs[0].Algo)
	assert.Equal(t, "End", view.SIDs[0].EndpointBehavior)
}

func TestNewVertexView_NilIsNil(t *testing.T) {
	assert.Nil(t, newVertexView(nil))
}

func TestNewEdgeView_ProjectsFields(t *testing.T) {
	e := &graphmodel.Edge{
		ID: "ipv4_topology/e1", From: "igp_nodes/a", To: "igp_nodes/b",
		Latency: 5.5, Load: 42, CountryCodes: []string{"US"},
	}
	view := newEdgeView(e)
	require.NotNil(t, view)
	assert.Equal(t, "ipv4_topology/e1", view.ID)
	assert.Equal(t, int64(42), view.Load)
	assert.Equal(t, []string{"US"}, view.CountryCodes)
}

func TestNewLoadReportView_ConvertsEdgeIDsToStrings(t *testing.T) {
	lr := graphmodel.LoadReport{
		UpdatedEdges: []graphmodel.EdgeID{"ipv4_topology/e1", "ipv4_topology/e2"},
		EdgeLoads: []graphmodel.EdgeLoad{
			{EdgeKey: "ipv4_topology/e1", Load: 10},
		},
		AverageLoad: 10,
		TotalLoad:   10,
		EdgeCount:   1,
		HighestLoad: graphmodel.EdgeLoad{EdgeKey: "ipv4_topology/e1", Load: 10},
	}
	view := newLoadReportView(lr)
	assert.Equal(t, []string{"ipv4_topology/e1", "ipv4_topology/e2"}, view.UpdatedEdges)
	require.Len(t, view.EdgeLoads, 1)
	assert.Equal(t, "ipv4_topology/e1", view.EdgeLoads[0].EdgeKey)
	assert.Equal(t, "ipv4_topology/e1", view.HighestLoad.EdgeKey)
}

func TestNewPathResponse_SetsSourceAndDestInfoFromVertices(t *testing.T) {
	src := &graphmodel.Vertex{ID: "igp_nodes/src", Kind: graphmodel.VertexKindIGPNode}
	dst := &graphmodel.Vertex{ID: "igp_nodes/dst", Kind: graphmodel.VertexKindIGPNode}
	p := &graphmodel.Path{
		Found:    true,
		Hopcount: 1,
		Hops: []graphmodel.Hop{
			{Vertex: src, Edge: &graphmodel.Edge{ID: "ipv4_topology/e1", From: "igp_nodes/src", To: "igp_nodes/dst"}},
			{Vertex: dst},
		},
		Direction: graphmodel.DirectionOutbound,
	}
	resp := newPathResponse(p, nil)
	require.NotNil(t, resp.SourceInfo)
	require.NotNil(t, resp.DestInfo)
	assert.Equal(t, "igp_nodes/src", resp.SourceInfo.ID)
	assert.Equal(t, "igp_nodes/dst", resp.DestInfo.ID)
	assert.Nil(t, resp.SRv6Data)
}

func TestNewPathResponse_NotFoundHasNoVertexInfo(t *testing.T) {
	p := &graphmodel.Path{Found: false}
	resp := newPathResponse(p, nil)
	assert.False(t, resp.Found)
	assert.Nil(t, resp.SourceInfo)
	assert.Nil(t, resp.DestInfo)
	assert.Empty(t, resp.Path)
}

func TestNewPathResponse_AttachesCarrierWhenProvided(t *testing.T) {
	p := &graphmodel.Path{Found: true}
	c := &graphmodel.Carrier{SRv6USID: "fc00:0:1:2::", Algo: 128}
	resp := newPathResponse(p, c)
	require.NotNil(t, resp.SRv6Data)
	assert.Equal(t, "fc00:0:1:2::", resp.SRv6Data.SRv6USID)
}
