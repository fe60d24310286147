// Grounded on services/report-svc/internal/generator/excel.go: one sheet per
// report section, a bold/white-on-blue headerStyle for table headers built
// via excelize.NewFile, and the same cellAddr-via-ColName addressing scheme.
package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelGenerator renders a Data as an XLSX workbook.
type ExcelGenerator struct {
	BaseGenerator
}

func NewExcelGenerator() *ExcelGenerator { return &ExcelGenerator{} }

func (g *ExcelGenerator) Format() Format { return FormatXLSX }

func (g *ExcelGenerator) headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	return style
}

func (g *ExcelGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	var err error
	switch data.Type {
	case TypePath:
		err = g.writePathSheet(f, data)
	case TypeBestPaths:
		err = g.writeBestPathsSheet(f, data)
	case TypeLoadUpdate:
		err = g.writeLoadUpdateSheet(f, data)
	case TypeRPOSelection:
		err = g.writeRPOSheet(f, data)
	default:
		return nil, fmt.Errorf("report: unsupported report type %q for xlsx", data.Type)
	}
	if err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummary(f *excelize.File, sheet string, data *Data) {
	f.NewSheet(sheet)
	f.SetCellValue(sheet, "A1", g.GetTitle(data))
	f.SetCellValue(sheet, "A2", "Author")
	f.SetCellValue(sheet, "B2", g.GetAuthor(data))
	f.SetCellValue(sheet, "A3", "Collection")
	f.SetCellValue(sheet, "B3", data.Collection)
}

func (g *ExcelGenerator) writeHopsTable(f *excelize.File, sheet string, startRow int, rows [][]string) {
	style := g.headerStyle(f)
	headers := []string{"Index", "Vertex", "Kind", "Edge", "Latency (us)"}
	for i, h := range headers {
		cell := Cell(ColName(i), startRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	for r, row := range rows {
		for c, v := range row {
			f.SetCellValue(sheet, Cell(ColName(c), startRow+1+r), v)
		}
	}
}

func (g *ExcelGenerator) writePathSheet(f *excelize.File, data *Data) error {
	sheet := "Path"
	g.writeSummary(f, sheet, data)

	f.SetCellValue(sheet, "A5", "Source")
	f.SetCellValue(sheet, "B5", data.Source)
	f.SetCellValue(sheet, "A6", "Destination")
	f.SetCellValue(sheet, "B6", data.Destination)

	if data.Path == nil {
		f.SetCellValue(sheet, "A8", "No path data")
		return nil
	}

	f.SetCellValue(sheet, "A8", "Found")
	f.SetCellValue(sheet, "B8", data.Path.Found)
	f.SetCellValue(sheet, "A9", "Hopcount")
	f.SetCellValue(sheet, "B9", data.Path.Hopcount)
	f.SetCellValue(sheet, "A10", "Total Latency")
	f.SetCellValue(sheet, "B10", g.FormatFloatPtr(data.Path.TotalLatency, 2))

	if g.ShouldIncludeRawData(data) {
		g.writeHopsTable(f, sheet, 12, pathRows(data.Path))
	}
	if g.ShouldIncludeCarrier(data) && data.Carrier != nil {
		row := 12 + len(data.Path.Hops) + 2
		f.SetCellValue(sheet, Cell("A", row), "uSID")
		f.SetCellValue(sheet, Cell("B", row), data.Carrier.SRv6USID)
	}
	return nil
}

func (g *ExcelGenerator) writeBestPathsSheet(f *excelize.File, data *Data) error {
	sheet := "BestPaths"
	g.writeSummary(f, sheet, data)

	if data.BestPaths == nil || !data.BestPaths.Found {
		f.SetCellValue(sheet, "A5", "No paths found")
		return nil
	}

	row := 5
	style := g.headerStyle(f)
	for i, p := range data.BestPaths.Paths {
		label := Cell("A", row)
		f.SetCellValue(sheet, label, fmt.Sprintf("Candidate %d", i+1))
		f.SetCellStyle(sheet, label, label, style)
		row++
		f.SetCellValue(sheet, Cell("A", row), "Hopcount")
		f.SetCellValue(sheet, Cell("B", row), p.Hopcount)
		row++
		if g.ShouldIncludeRawData(data) {
			g.writeHopsTable(f, sheet, row, pathRows(p))
			row += len(p.Hops) + 2
		}
	}
	return nil
}

func (g *ExcelGenerator) writeLoadUpdateSheet(f *excelize.File, data *Data) error {
	sheet := "LoadUpdate"
	g.writeSummary(f, sheet, data)

	f.SetCellValue(sheet, "A5", "Load Increment")
	f.SetCellValue(sheet, "B5", data.LoadIncrement)

	if data.LoadUpdate == nil {
		f.SetCellValue(sheet, "A7", "No load update data")
		return nil
	}
	lu := data.LoadUpdate
	f.SetCellValue(sheet, "A7", "Edge Count")
	f.SetCellValue(sheet, "B7", lu.EdgeCount)
	f.SetCellValue(sheet, "A8", "Total Load")
	f.SetCellValue(sheet, "B8", lu.TotalLoad)
	f.SetCellValue(sheet, "A9", "Average Load")
	f.SetCellValue(sheet, "B9", g.FormatFloat(lu.AverageLoad, 2))
	f.SetCellValue(sheet, "A10", "Highest Load Edge")
	f.SetCellValue(sheet, "B10", lu.HighestLoad.EdgeKey.String())

	style := g.headerStyle(f)
	for i, h := range []string{"Edge", "Load"} {
		cell := Cell(ColName(i), 12)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	for i, el := range lu.EdgeLoads {
		row := 13 + i
		f.SetCellValue(sheet, Cell("A", row), el.EdgeKey.String())
		f.SetCellValue(sheet, Cell("B", row), el.Load)
	}
	return nil
}

func (g *ExcelGenerator) writeRPOSheet(f *excelize.File, data *Data) error {
	sheet := "RPO"
	g.writeSummary(f, sheet, data)

	if data.RPO == nil {
		f.SetCellValue(sheet, "A5", "No RPO selection data")
		return nil
	}
	r := data.RPO
	f.SetCellValue(sheet, "A5", "Metric")
	f.SetCellValue(sheet, "B5", r.Metric)
	f.SetCellValue(sheet, "A6", "Strategy")
	f.SetCellValue(sheet, "B6", string(r.OptimizationStrategy))
	f.SetCellValue(sheet, "A7", "Selected Endpoint")
	f.SetCellValue(sheet, "B7", r.SelectedEndpoint.ID.String())
	f.SetCellValue(sheet, "A8", "Metric Value")
	f.SetCellValue(sheet, "B8", fmt.Sprintf("%v", r.MetricValue))
	f.SetCellValue(sheet, "A9", "Total Endpoints Evaluated")
	f.SetCellValue(sheet, "B9", r.TotalEndpointsEvaluated)

	if r.Path != nil && g.ShouldIncludeRawData(data) {
		g.writeHopsTable(f, sheet, 11, pathRows(r.Path))
	}
	return nil
}
