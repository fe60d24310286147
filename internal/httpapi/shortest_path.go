package httpapi

import (
	"net/http"

	"jalapeno/internal/apperror"
	"jalapeno/internal/audit"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/loadupdate"
	"jalapeno/internal/pathengine"
	"jalapeno/internal/report"
	"jalapeno/internal/usid"
)

// pathQuery bundles the parameters every shortest_path* endpoint shares.
type pathQuery struct {
	source, destination graphmodel.VertexID
	direction            graphmodel.Direction
	weight               graphmodel.Weight
	algo                 uint32
	excludedCountries    map[string]struct{}
}

func parsePathQuery(r *http.Request, weight graphmodel.Weight) (*pathQuery, error) {
	source, err := requireQuery(r, "source")
	if err != nil {
		return nil, err
	}
	destination, err := requireQuery(r, "destination")
	if err != nil {
		return nil, err
	}
	dir, err := direction(r)
	if err != nil {
		return nil, err
	}
	if weight == "" {
		weight = graphmodel.Weight(r.URL.Query().Get("weight"))
		if weight == "" {
			weight = graphmodel.WeightNone
		}
	}
	return &pathQuery{
		source:            graphmodel.VertexID(source),
		destination:       graphmodel.VertexID(destination),
		direction:         dir,
		weight:            weight,
		algo:              queryUint32(r, "algo", 0),
		excludedCountries: excludedCountrySet(r),
	}, nil
}

func (s *Server) engineRequest(g *graphmodel.Graph, q *pathQuery) pathengine.Request {
	return pathengine.Request{
		Graph:             g,
		Source:            q.source,
		Destination:       q.destination,
		Direction:         q.direction,
		Weight:            q.weight,
		Algo:              q.algo,
		ExcludedCountries: q.excludedCountries,
	}
}

// carrierFor synthesizes the SRv6 uSID carrier for a found path (spec.md
// §4.4); a not-found path carries no carrier.
func carrierFor(p *graphmodel.Path, algo uint32) *graphmodel.Carrier {
	if !p.Found {
		return nil
	}
	c := usid.Synthesize(p.Vertices(), algo, "")
	return &c
}

// auditPathComputation records a read-only path computation the way
// internal/audit's ActionCompute is meant to be used, never blocking the
// response on the audit write.
func (s *Server) auditPathComputation(r *http.Request, route string, q *pathQuery, found bool) {
	if s.Audit == nil {
		return
	}
	outcome := audit.OutcomeSuccess
	if !found {
		outcome = audit.OutcomeNotFound
	}
	entry := audit.NewEntry().
		Service("jalapeno-api").
		Route(route).
		Action(audit.ActionCompute).
		Outcome(outcome).
		Resource("path", string(q.source)+"->"+string(q.destination)).
		RequestID(RequestIDFromContext(r)).
		Build()
	_ = s.Audit.Log(r.Context(), entry)
}

// exportFormat inspects ?format= and the Accept header for a report
// export request, returning "" when the client wants the normal JSON body.
func exportFormat(r *http.Request) report.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return report.Format(f)
	}
	accept := r.Header.Get("Accept")
	if accept == "text/csv" {
		return report.FormatCSV
	}
	return ""
}

func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, data *report.Data) bool {
	format := exportFormat(r)
	if format == "" {
		return false
	}
	gen, ok := s.Reports[format]
	if !ok {
		WriteError(w, apperror.NewField(apperror.KindValidation, "unsupported report format", "format"))
		return true
	}
	out, err := gen.Generate(r.Context(), data)
	if err != nil {
		WriteError(w, err)
		return true
	}
	w.Header().Set("Content-Type", report.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
	return true
}

// handleShortestPath computes the unweighted shortest path (spec.md §6).
func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	s.computeAndRespond(w, r, graphmodel.WeightNone)
}

// handleShortestPathLatency is shortest_path with weight=latency, reporting
// total_latency.
func (s *Server) handleShortestPathLatency(w http.ResponseWriter, r *http.Request) {
	s.computeAndRespond(w, r, graphmodel.WeightLatency)
}

// handleShortestPathUtilization is shortest_path with
// weight=percent_util_out, reporting average_utilization.
func (s *Server) handleShortestPathUtilization(w http.ResponseWriter, r *http.Request) {
	s.computeAndRespond(w, r, graphmodel.WeightPercentUtilOut)
}

// handleShortestPathSovereignty is plain shortest_path with excluded
// countries honored (already parsed by parsePathQuery).
func (s *Server) handleShortestPathSovereignty(w http.ResponseWriter, r *http.Request) {
	s.computeAndRespond(w, r, graphmodel.WeightNone)
}

func (s *Server) computeAndRespond(w http.ResponseWriter, r *http.Request, weight graphmodel.Weight) {
	route := r.Pattern
	q, err := parsePathQuery(r, weight)
	if err != nil {
		WriteError(w, err)
		return
	}
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	p := pathengine.ShortestPath(r.Context(), s.engineRequest(g, q))
	s.auditPathComputation(r, route, q, p.Found)

	resp := newPathResponse(p, carrierFor(p, q.algo))

	if s.writeReport(w, r, &report.Data{
		Type: report.TypePath, Source: string(q.source), Destination: string(q.destination),
		Path: p, Options: &report.Options{IncludeRawData: true, IncludeCarrier: true},
	}) {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleShortestPathLoad computes the path, applies the Load Updater (spec.md
// §4.5), and reports the resulting load_data alongside the path.
func (s *Server) handleShortestPathLoad(w http.ResponseWriter, r *http.Request) {
	route := r.Pattern
	q, err := parsePathQuery(r, graphmodel.WeightLoad)
	if err != nil {
		WriteError(w, err)
		return
	}
	collection := r.PathValue("collection")
	g, ok := s.loadGraph(w, r, collection)
	if !ok {
		return
	}
	p := pathengine.ShortestPath(r.Context(), s.engineRequest(g, q))
	s.auditPathComputation(r, route, q, p.Found)

	resp := newPathResponse(p, carrierFor(p, q.algo))

	var loadReport graphmodel.LoadReport
	if p.Found {
		loadReport = loadupdate.Update(r.Context(), s.Store, collection, p, s.Config.LoadUpdate.DefaultIncrement)
		lr := newLoadReportView(loadReport)
		resp.LoadData = &lr

		if s.Audit != nil {
			entry := audit.NewEntry().
				Service("jalapeno-api").Route(route).Action(audit.ActionUpdate).Outcome(audit.OutcomeSuccess).
				Resource("load", collection).RequestID(RequestIDFromContext(r)).
				Changes(&audit.ChangeSet{Fields: []string{"load"}}).Build()
			_ = s.Audit.Log(r.Context(), entry)
		}
	}

	if s.writeReport(w, r, &report.Data{
		Type: report.TypeLoadUpdate, Collection: collection,
		LoadIncrement: s.Config.LoadUpdate.DefaultIncrement, LoadUpdate: &loadReport,
	}) {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBestPaths computes up to limit ranked paths (spec.md §6, default 4).
func (s *Server) handleBestPaths(w http.ResponseWriter, r *http.Request) {
	route := r.Pattern
	q, err := parsePathQuery(r, "")
	if err != nil {
		WriteError(w, err)
		return
	}
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 4)
	result := pathengine.BestPaths(r.Context(), s.engineRequest(g, q), limit)
	s.auditPathComputation(r, route, q, result.Found)

	if s.writeReport(w, r, &report.Data{Type: report.TypeBestPaths, Source: string(q.source), Destination: string(q.destination), BestPaths: result}) {
		return
	}

	candidates := make([]pathResponse, 0, len(result.Paths))
	for _, p := range result.Paths {
		candidates = append(candidates, newPathResponse(p, carrierFor(p, q.algo)))
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": result.Found, "paths": candidates, "count": len(candidates)})
}

// handleNextBestPath computes the shortest path plus same-hopcount and
// plus-one-hopcount alternates (spec.md §6).
func (s *Server) handleNextBestPath(w http.ResponseWriter, r *http.Request) {
	route := r.Pattern
	q, err := parsePathQuery(r, "")
	if err != nil {
		WriteError(w, err)
		return
	}
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	sameHopLimit := queryInt(r, "same_hop_limit", 4)
	plusOneLimit := queryInt(r, "plus_one_limit", 8)
	result := pathengine.NextBestPaths(r.Context(), s.engineRequest(g, q), sameHopLimit, plusOneLimit)
	s.auditPathComputation(r, route, q, result.Found)

	if !result.Found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}

	sameHop := make([]pathResponse, 0, len(result.SameHopcountPaths))
	for _, p := range result.SameHopcountPaths {
		sameHop = append(sameHop, newPathResponse(p, carrierFor(p, q.algo)))
	}
	plusOne := make([]pathResponse, 0, len(result.PlusOneHopcountPaths))
	for _, p := range result.PlusOneHopcountPaths {
		plusOne = append(plusOne, newPathResponse(p, carrierFor(p, q.algo)))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"found":                  true,
		"shortest_path":          newPathResponse(result.ShortestPath, carrierFor(result.ShortestPath, q.algo)),
		"same_hopcount_paths":    sameHop,
		"plus_one_hopcount_paths": plusOne,
	})
}
