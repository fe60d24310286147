// Grounded on services/report-svc/internal/generator/csv.go: a csvWriter
// wrapper that remembers the first write error, a Type dispatch to one
// writeXxxCSV function per report type, each emitting labeled sections as
// repeated comma-separated rows.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"jalapeno/internal/graphmodel"
)

// CSVGenerator renders a Data as CSV text.
type CSVGenerator struct {
	BaseGenerator
}

func NewCSVGenerator() *CSVGenerator { return &CSVGenerator{} }

func (g *CSVGenerator) Format() Format { return FormatCSV }

// csvWriter wraps csv.Writer and remembers the first error encountered so
// callers can chain writes without checking every return value.
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) write(fields ...string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(fields)
}

func (g *CSVGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.write("# " + g.GetTitle(data))
	cw.write("Author", g.GetAuthor(data))
	if desc := g.GetDescription(data); desc != "" {
		cw.write("Description", desc)
	}
	cw.write()

	switch data.Type {
	case TypePath:
		g.writePathCSV(cw, data)
	case TypeBestPaths:
		g.writeBestPathsCSV(cw, data)
	case TypeLoadUpdate:
		g.writeLoadUpdateCSV(cw, data)
	case TypeRPOSelection:
		g.writeRPOCSV(cw, data)
	default:
		return nil, fmt.Errorf("report: unsupported report type %q for csv", data.Type)
	}

	if cw.err != nil {
		return nil, fmt.Errorf("failed to write csv report: %w", cw.err)
	}

	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *CSVGenerator) writeQueryCSV(cw *csvWriter, data *Data) {
	cw.write("Query")
	cw.write("Collection", data.Collection)
	cw.write("Source", data.Source)
	cw.write("Destination", data.Destination)
	cw.write("Direction", data.Direction)
	cw.write("Weight", data.Weight)
	cw.write()
}

func (g *CSVGenerator) writePathSummaryCSV(cw *csvWriter, p *graphmodel.Path) {
	cw.write("Path Summary")
	cw.write("Found", fmt.Sprintf("%v", p.Found))
	cw.write("Hopcount", fmt.Sprintf("%d", p.Hopcount))
	cw.write("Total Latency", g.FormatFloatPtr(p.TotalLatency, 2))
	cw.write("Average Utilization", g.FormatFloatPtr(p.AverageUtilization, 2))
	cw.write("Average Load", g.FormatFloatPtr(p.AverageLoad, 2))
	cw.write()
}

func (g *CSVGenerator) writeHopsCSV(cw *csvWriter, p *graphmodel.Path) {
	cw.write("Hops")
	cw.write("Index", "Vertex", "Kind", "Edge", "Latency (us)")
	for _, row := range pathRows(p) {
		cw.write(row...)
	}
	cw.write()
}

func (g *CSVGenerator) writeCarrierCSV(cw *csvWriter, c *graphmodel.Carrier) {
	if c == nil {
		return
	}
	cw.write("SRv6 Carrier")
	cw.write("uSID Block", c.USIDBlock)
	cw.write("uSID", c.SRv6USID)
	cw.write("Algo", fmt.Sprintf("%d", c.Algo))
	cw.write("SID List", fmt.Sprintf("%v", c.SRv6SIDList))
	cw.write()
}

func (g *CSVGenerator) writePathCSV(cw *csvWriter, data *Data) {
	g.writeQueryCSV(cw, data)
	if data.Path == nil {
		cw.write("No path data")
		return
	}
	g.writePathSummaryCSV(cw, data.Path)
	if g.ShouldIncludeRawData(data) {
		g.writeHopsCSV(cw, data.Path)
	}
	if g.ShouldIncludeCarrier(data) {
		g.writeCarrierCSV(cw, data.Carrier)
	}
}

func (g *CSVGenerator) writeBestPathsCSV(cw *csvWriter, data *Data) {
	g.writeQueryCSV(cw, data)
	if data.BestPaths == nil || !data.BestPaths.Found {
		cw.write("No paths found")
		return
	}
	cw.write("Candidates", fmt.Sprintf("%d", len(data.BestPaths.Paths)))
	cw.write()
	for i, p := range data.BestPaths.Paths {
		cw.write(fmt.Sprintf("Candidate %d", i+1))
		g.writePathSummaryCSV(cw, p)
		if g.ShouldIncludeRawData(data) {
			g.writeHopsCSV(cw, p)
		}
	}
}

func (g *CSVGenerator) writeLoadUpdateCSV(cw *csvWriter, data *Data) {
	cw.write("Collection", data.Collection)
	cw.write("Load Increment", fmt.Sprintf("%d", data.LoadIncrement))
	cw.write()
	if data.LoadUpdate == nil {
		cw.write("No load update data")
		return
	}
	lu := data.LoadUpdate
	cw.write("Load Update Summary")
	cw.write("Edge Count", fmt.Sprintf("%d", lu.EdgeCount))
	cw.write("Total Load", fmt.Sprintf("%d", lu.TotalLoad))
	cw.write("Average Load", g.FormatFloat(lu.AverageLoad, 2))
	cw.write("Highest Load Edge", lu.HighestLoad.EdgeKey.String())
	cw.write("Highest Load", fmt.Sprintf("%d", lu.HighestLoad.Load))
	cw.write()

	cw.write("Edge Loads")
	cw.write("Edge", "Load")
	for _, el := range lu.EdgeLoads {
		cw.write(el.EdgeKey.String(), fmt.Sprintf("%d", el.Load))
	}
}

func (g *CSVGenerator) writeRPOCSV(cw *csvWriter, data *Data) {
	if data.RPO == nil {
		cw.write("No RPO selection data")
		return
	}
	r := data.RPO
	cw.write("RPO Selection")
	cw.write("Metric", r.Metric)
	cw.write("Optimization Strategy", string(r.OptimizationStrategy))
	cw.write("Selected Endpoint", r.SelectedEndpoint.ID.String())
	cw.write("Metric Value", fmt.Sprintf("%v", r.MetricValue))
	cw.write("Algo", fmt.Sprintf("%d", r.Algo))
	cw.write("Total Endpoints Evaluated", fmt.Sprintf("%d", r.TotalEndpointsEvaluated))
	cw.write("Valid Endpoints", fmt.Sprintf("%d", r.ValidEndpointsCount))
	cw.write()

	if r.Path != nil {
		g.writePathSummaryCSV(cw, r.Path)
		if g.ShouldIncludeRawData(data) {
			g.writeHopsCSV(cw, r.Path)
		}
	}
}
