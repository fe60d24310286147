package httpapi

import (
	"net/http"

	"jalapeno/internal/apperror"
	"jalapeno/internal/audit"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/report"
	"jalapeno/internal/rpo"
)

// metricView projects one entry of rpo.SupportedMetrics.
type metricView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Optimize string `json:"optimize"`
}

// handleRPOMetrics returns the closed metric table (spec.md §6, §4.6).
func (s *Server) handleRPOMetrics(w http.ResponseWriter, r *http.Request) {
	views := make([]metricView, 0, len(rpo.SupportedMetrics))
	for name, m := range rpo.SupportedMetrics {
		views = append(views, metricView{Name: name, Kind: string(m.Kind), Optimize: string(m.Optimize)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": views})
}

// endpointView projects a graphstore.Endpoint candidate.
type endpointView struct {
	ID    string         `json:"id"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// handleRPOEndpoints lists the endpoint inventory of an RPO collection.
func (s *Server) handleRPOEndpoints(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if err := graphstore.ValidateCollection(collection); err != nil {
		WriteError(w, err)
		return
	}
	limit := queryInt(r, "limit", 100)
	endpoints, err := s.Store.ScanEndpoints(r.Context(), collection, nil, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	views := make([]endpointView, 0, len(endpoints))
	for _, ep := range endpoints {
		views = append(views, endpointView{ID: ep.ID.String(), Attrs: ep.Attrs})
	}
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": views, "count": len(views)})
}

// selectionResponse is the canonical response shape of both RPO selection
// endpoints (spec.md §6).
type selectionResponse struct {
	SelectedEndpoint        endpointView `json:"selected_endpoint"`
	Metric                  string       `json:"metric"`
	MetricValue             any          `json:"metric_value"`
	OptimizationStrategy    string       `json:"optimization_strategy"`
	Algo                    uint32       `json:"algo"`
	TotalEndpointsEvaluated int          `json:"total_endpoints_evaluated"`
	ValidEndpointsCount     int          `json:"valid_endpoints_count"`
	Path                    pathResponse `json:"path"`
}

func newSelectionResponse(res *rpo.Result) selectionResponse {
	return selectionResponse{
		SelectedEndpoint:        endpointView{ID: res.SelectedEndpoint.ID.String(), Attrs: res.SelectedEndpoint.Attrs},
		Metric:                  res.Metric,
		MetricValue:             res.MetricValue,
		OptimizationStrategy:    string(res.OptimizationStrategy),
		Algo:                    res.Algo,
		TotalEndpointsEvaluated: res.TotalEndpointsEvaluated,
		ValidEndpointsCount:     res.ValidEndpointsCount,
		Path:                    newPathResponse(res.Path, carrierFor(res.Path, res.Algo)),
	}
}

func (s *Server) parseRPORequest(r *http.Request, collection string, keys []string) (rpo.Request, error) {
	source, err := requireQuery(r, "source")
	if err != nil {
		return rpo.Request{}, err
	}
	metric, err := requireQuery(r, "metric")
	if err != nil {
		return rpo.Request{}, err
	}
	graphCollection, err := requireQuery(r, "graphs")
	if err != nil {
		return rpo.Request{}, err
	}
	if err := graphstore.ValidateCollection(graphCollection); err != nil {
		return rpo.Request{}, err
	}
	dir, err := direction(r)
	if err != nil {
		return rpo.Request{}, err
	}

	return rpo.Request{
		Collection:        collection,
		Keys:              keys,
		Limit:             queryInt(r, "limit", 0),
		Metric:            metric,
		ExactValue:        r.URL.Query().Get("value"),
		Source:            graphmodel.VertexID(source),
		GraphCollection:   graphCollection,
		Direction:         dir,
		Weight:            graphmodel.Weight(r.URL.Query().Get("weight")),
		Algo:              queryUint32(r, "algo", 0),
		ExcludedCountries: excludedCountrySet(r),
	}, nil
}

func (s *Server) runRPOSelection(w http.ResponseWriter, r *http.Request, req rpo.Request) {
	res, err := rpo.Select(r.Context(), s.Store, req)
	if err != nil {
		WriteError(w, err)
		return
	}

	if s.Audit != nil {
		outcome := audit.OutcomeSuccess
		if res.Path == nil || !res.Path.Found {
			outcome = audit.OutcomeNotFound
		}
		entry := audit.NewEntry().
			Service("jalapeno-api").Route(r.Pattern).Action(audit.ActionSelect).Outcome(outcome).
			Resource("endpoint", res.SelectedEndpoint.ID.String()).RequestID(RequestIDFromContext(r)).
			Meta("metric", req.Metric).Build()
		_ = s.Audit.Log(r.Context(), entry)
	}

	if s.writeReport(w, r, &report.Data{Type: report.TypeRPOSelection, RPO: res}) {
		return
	}
	writeJSON(w, http.StatusOK, newSelectionResponse(res))
}

// handleRPOSelectOptimal picks the best endpoint from a full collection
// scan (spec.md §6).
func (s *Server) handleRPOSelectOptimal(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if err := graphstore.ValidateCollection(collection); err != nil {
		WriteError(w, err)
		return
	}
	req, err := s.parseRPORequest(r, collection, nil)
	if err != nil {
		WriteError(w, err)
		return
	}
	s.runRPOSelection(w, r, req)
}

// handleRPOSelectFromList picks the best endpoint among an explicit
// candidate key list (the destinations query parameter, CSV).
func (s *Server) handleRPOSelectFromList(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if err := graphstore.ValidateCollection(collection); err != nil {
		WriteError(w, err)
		return
	}
	keys := queryCSV(r, "destinations")
	if len(keys) == 0 {
		WriteError(w, apperror.NewField(apperror.KindValidation, "destinations is required", "destinations"))
		return
	}
	req, err := s.parseRPORequest(r, collection, keys)
	if err != nil {
		WriteError(w, err)
		return
	}
	s.runRPOSelection(w, r, req)
}
