// Grounded on services/report-svc/internal/generator/pdf.go: same maroto v2
// page config, the same title/header-bg/metric-card/table-header color
// palette and Text/Cell prop styles, the same addHeader/addSection/addFooter
// skeleton — retargeted from flow/analytics content onto path/load/RPO
// content.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"jalapeno/internal/graphmodel"
)

// PDFGenerator renders a Data as a PDF document.
type PDFGenerator struct {
	BaseGenerator
}

func NewPDFGenerator() *PDFGenerator { return &PDFGenerator{} }

func (g *PDFGenerator) Format() Format { return FormatPDF }

var (
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	titleStyle = props.Text{Size: 24, Style: fontstyle.Bold, Align: align.Center, Color: headerBgColor}
	h2Style    = props.Text{Size: 16, Style: fontstyle.Bold, Color: headerBgColor, Top: 5}
	normalStyle = props.Text{Size: 10}
	boldStyle   = props.Text{Size: 10, Style: fontstyle.Bold}
	smallStyle  = props.Text{Size: 8, Color: darkGrayColor}

	metricValueStyle = props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Center, Color: primaryColor}
	metricLabelStyle = props.Text{Size: 9, Align: align.Center, Color: darkGrayColor}

	tableHeaderStyle     = &props.Cell{BackgroundColor: primaryColor}
	tableHeaderTextStyle = props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 255, Green: 255, Blue: 255}, Align: align.Center}
	tableCellStyle       = &props.Cell{BorderType: border.Bottom, BorderColor: lightGrayColor}
	tableCellTextStyle   = props.Text{Size: 9, Align: align.Center}
)

func (g *PDFGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, data)

	switch data.Type {
	case TypePath:
		g.addPathContent(m, data)
	case TypeBestPaths:
		g.addBestPathsContent(m, data)
	case TypeLoadUpdate:
		g.addLoadUpdateContent(m, data)
	case TypeRPOSelection:
		g.addRPOContent(m, data)
	default:
		return nil, fmt.Errorf("report: unsupported report type %q for pdf", data.Type)
	}

	g.addFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pdf report: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, data *Data) {
	m.AddRow(15, text.NewCol(12, g.GetTitle(data), titleStyle))
	m.AddRow(5, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Author: %s", g.GetAuthor(data)), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)
	if desc := g.GetDescription(data); desc != "" {
		m.AddRow(5, text.NewCol(12, desc, smallStyle))
	}
	m.AddRow(8)
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10, text.NewCol(12, title, h2Style))
	m.AddRow(2, line.NewCol(12, props.Line{Color: primaryColor}))
	m.AddRow(5)
}

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}
	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}
	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if !card.Highlight {
			valueStyle.Size = 14
		}
		cols = append(cols, col.New(colSize).Add(
			text.New(card.Value, valueStyle),
			text.New(card.Label, metricLabelStyle),
		))
	}
	m.AddRow(20, cols...)
}

func (g *PDFGenerator) addHopsTable(m core.Maroto, p *graphmodel.Path) {
	m.AddRow(8,
		text.NewCol(1, "#", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Vertex", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "Kind", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Edge", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)
	for _, row := range pathRows(p) {
		m.AddRow(6,
			text.NewCol(1, row[0], tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, row[1], tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, row[2], tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, row[3], tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}

func (g *PDFGenerator) addPathContent(m core.Maroto, data *Data) {
	g.addSection(m, "Query")
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Source: %s", data.Source), normalStyle),
		text.NewCol(6, fmt.Sprintf("Destination: %s", data.Destination), normalStyle),
	)

	if data.Path == nil {
		m.AddRow(8, text.NewCol(12, "No path data", normalStyle))
		return
	}

	m.AddRow(8)
	g.addSection(m, "Path Summary")
	g.addMetricCards(m, []metricCard{
		{Label: "Hopcount", Value: fmt.Sprintf("%d", data.Path.Hopcount), Highlight: true},
		{Label: "Found", Value: fmt.Sprintf("%v", data.Path.Found)},
		{Label: "Total Latency", Value: g.FormatFloatPtr(data.Path.TotalLatency, 2)},
	})

	if g.ShouldIncludeRawData(data) && len(data.Path.Hops) > 0 {
		m.AddRow(8)
		g.addSection(m, "Hops")
		g.addHopsTable(m, data.Path)
	}

	if g.ShouldIncludeCarrier(data) && data.Carrier != nil {
		m.AddRow(8)
		g.addSection(m, "SRv6 Carrier")
		m.AddRow(6, text.NewCol(12, fmt.Sprintf("uSID: %s", data.Carrier.SRv6USID), normalStyle))
	}
}

func (g *PDFGenerator) addBestPathsContent(m core.Maroto, data *Data) {
	g.addSection(m, "Best Paths")
	if data.BestPaths == nil || !data.BestPaths.Found {
		m.AddRow(8, text.NewCol(12, "No paths found", normalStyle))
		return
	}
	for i, p := range data.BestPaths.Paths {
		m.AddRow(8, text.NewCol(12, fmt.Sprintf("Candidate %d (hopcount %d)", i+1, p.Hopcount), boldStyle))
		if g.ShouldIncludeRawData(data) {
			g.addHopsTable(m, p)
		}
		m.AddRow(4)
	}
}

func (g *PDFGenerator) addLoadUpdateContent(m core.Maroto, data *Data) {
	g.addSection(m, "Load Update")
	if data.LoadUpdate == nil {
		m.AddRow(8, text.NewCol(12, "No load update data", normalStyle))
		return
	}
	lu := data.LoadUpdate
	g.addMetricCards(m, []metricCard{
		{Label: "Edges Updated", Value: fmt.Sprintf("%d", lu.EdgeCount), Highlight: true},
		{Label: "Total Load", Value: fmt.Sprintf("%d", lu.TotalLoad)},
		{Label: "Average Load", Value: g.FormatFloat(lu.AverageLoad, 2)},
	})
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Highest load: %s (%d)", lu.HighestLoad.EdgeKey, lu.HighestLoad.Load), normalStyle))
}

func (g *PDFGenerator) addRPOContent(m core.Maroto, data *Data) {
	g.addSection(m, "RPO Selection")
	if data.RPO == nil {
		m.AddRow(8, text.NewCol(12, "No RPO selection data", normalStyle))
		return
	}
	r := data.RPO
	g.addMetricCards(m, []metricCard{
		{Label: "Metric", Value: r.Metric, Highlight: true},
		{Label: "Strategy", Value: string(r.OptimizationStrategy)},
		{Label: "Endpoint", Value: r.SelectedEndpoint.ID.String()},
	})
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Evaluated %d of which %d valid", r.TotalEndpointsEvaluated, r.ValidEndpointsCount), normalStyle))

	if r.Path != nil && g.ShouldIncludeRawData(data) {
		m.AddRow(8)
		g.addSection(m, "Selected Path")
		g.addHopsTable(m, r.Path)
	}
}

func (g *PDFGenerator) addFooter(m core.Maroto) {
	m.AddRow(10)
	m.AddRow(2, line.NewCol(12, props.Line{Color: lightGrayColor}))
	m.AddRow(6, text.NewCol(12,
		fmt.Sprintf("Generated by jalapeno-api | %s", time.Now().Format("2006-01-02 15:04:05")),
		props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
	))
}
