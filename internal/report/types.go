// Package report renders a computed path, path set, load update, or RPO
// selection into CSV, XLSX or PDF. Grounded on services/report-svc/internal/
// generator/{generator,csv,excel,pdf}.go: the same Generator interface,
// BaseGenerator helper set, and per-format dispatch-by-Type shape, retargeted
// from flow-optimization report types onto this API's own result types
// (graphmodel.Path, pathengine.BestPathsResult, graphmodel.LoadReport,
// rpo.Result) instead of the teacher's proto-derived FlowReportData/
// AnalyticsReportData/SimulationReportData family.
package report

import (
	"context"
	"fmt"

	"jalapeno/internal/graphmodel"
	"jalapeno/internal/pathengine"
	"jalapeno/internal/rpo"
)

// Type identifies which kind of computed result Data carries.
type Type string

const (
	TypePath         Type = "path"
	TypeBestPaths    Type = "best_paths"
	TypeLoadUpdate   Type = "load_update"
	TypeRPOSelection Type = "rpo_selection"
)

// Format identifies the output encoding a Generator produces.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Options carries report metadata and inclusion toggles, all optional.
type Options struct {
	Title       string
	Author      string
	Description string

	// IncludeRawData controls whether the per-hop vertex/edge table is
	// rendered in addition to the summary metrics.
	IncludeRawData bool
	// IncludeCarrier controls whether the derived SRv6 uSID carrier (SID
	// list, block, algo) is rendered alongside the path.
	IncludeCarrier bool
}

// Data bundles everything a Generator needs to render one report. Exactly
// one of Path, BestPaths, LoadUpdate or RPO is populated, selected by Type.
type Data struct {
	Type    Type
	Options *Options

	Collection  string
	Source      string
	Destination string
	Direction   string
	Weight      string

	Path      *graphmodel.Path
	Carrier   *graphmodel.Carrier
	BestPaths *pathengine.BestPathsResult

	LoadIncrement int64
	LoadUpdate    *graphmodel.LoadReport

	RPO *rpo.Result
}

// Generator is the interface every format backend implements.
type Generator interface {
	Generate(ctx context.Context, data *Data) ([]byte, error)
	Format() Format
}

// BaseGenerator holds formatting helpers shared by every Generator
// implementation; embed it rather than duplicating these helpers.
type BaseGenerator struct{}

// GetTitle returns data.Options.Title if set, else a default derived from
// data.Type.
func (b *BaseGenerator) GetTitle(data *Data) string {
	if data.Options != nil && data.Options.Title != "" {
		return data.Options.Title
	}
	switch data.Type {
	case TypePath:
		return "Shortest Path Report"
	case TypeBestPaths:
		return "Best Paths Report"
	case TypeLoadUpdate:
		return "Load Update Report"
	case TypeRPOSelection:
		return "RPO Selection Report"
	default:
		return "Jalapeno Report"
	}
}

// GetAuthor returns data.Options.Author if set, else a default.
func (b *BaseGenerator) GetAuthor(data *Data) string {
	if data.Options != nil && data.Options.Author != "" {
		return data.Options.Author
	}
	return "jalapeno-api"
}

// GetDescription returns data.Options.Description, or "" if unset.
func (b *BaseGenerator) GetDescription(data *Data) string {
	if data.Options != nil {
		return data.Options.Description
	}
	return ""
}

// ShouldIncludeRawData reports whether the per-hop table should be rendered.
// Defaults to true when Options is nil.
func (b *BaseGenerator) ShouldIncludeRawData(data *Data) bool {
	if data.Options == nil {
		return true
	}
	return data.Options.IncludeRawData
}

// ShouldIncludeCarrier reports whether the derived SRv6 carrier should be
// rendered. Defaults to true when Options is nil.
func (b *BaseGenerator) ShouldIncludeCarrier(data *Data) bool {
	if data.Options == nil {
		return true
	}
	return data.Options.IncludeCarrier
}

// FormatFloat formats v with precision decimal places.
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatFloatPtr formats *v, or returns "n/a" for a nil pointer (the Path
// aggregate-metric fields are nil when the path has zero edges).
func (b *BaseGenerator) FormatFloatPtr(v *float64, precision int) string {
	if v == nil {
		return "n/a"
	}
	return b.FormatFloat(*v, precision)
}

// ColName converts a zero-based column index into a spreadsheet column
// letter (0 -> A, 25 -> Z, 26 -> AA).
func ColName(index int) string {
	result := ""
	for {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}

// Cell returns the "A1"-style address for col/row.
func Cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// pathRows flattens a path's hops into (vertex, edge-to-next) string rows
// for tabular rendering, shared by the CSV/Excel/PDF backends.
func pathRows(p *graphmodel.Path) [][]string {
	if p == nil {
		return nil
	}
	rows := make([][]string, 0, len(p.Hops))
	for i, h := range p.Hops {
		edgeID, latency := "", ""
		if h.Edge != nil {
			edgeID = h.Edge.ID.String()
			latency = fmt.Sprintf("%.2f", h.Edge.Latency)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			h.Vertex.ID.String(),
			h.Vertex.Kind.String(),
			edgeID,
			latency,
		})
	}
	return rows
}
