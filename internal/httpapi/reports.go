package httpapi

import (
	"net/http"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/pathengine"
	"jalapeno/internal/report"
)

// handleReportPath is the ambient export endpoint SPEC_FULL.md §6 adds
// alongside the shortest_path family's own ?format= negotiation: a
// dedicated route for pulling a path report without first knowing which
// weight family computed it, always computing an unweighted shortest path.
func (s *Server) handleReportPath(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	g, ok := s.loadGraph(w, r, collection)
	if !ok {
		return
	}
	q, err := parsePathQuery(r, graphmodel.WeightNone)
	if err != nil {
		WriteError(w, err)
		return
	}
	format := report.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatPDF
	}
	gen, ok := s.Reports[format]
	if !ok {
		WriteError(w, apperror.NewField(apperror.KindValidation, "unsupported report format", "format"))
		return
	}

	p := pathengine.ShortestPath(r.Context(), s.engineRequest(g, q))
	s.auditPathComputation(r, r.Pattern, q, p.Found)

	out, err := gen.Generate(r.Context(), &report.Data{
		Type:        report.TypePath,
		Collection:  collection,
		Source:      string(q.source),
		Destination: string(q.destination),
		Path:        p,
		Carrier:     carrierFor(p, q.algo),
		Options:     &report.Options{IncludeRawData: true, IncludeCarrier: true},
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", report.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
