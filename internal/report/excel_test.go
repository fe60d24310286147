package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"jalapeno/internal/graphmodel"
	"jalapeno/internal/pathengine"
)

func TestNewExcelGenerator(t *testing.T) {
	if g := NewExcelGenerator(); g == nil {
		t.Fatal("NewExcelGenerator() returned nil")
	}
}

func TestExcelGenerator_Format(t *testing.T) {
	if got := NewExcelGenerator().Format(); got != FormatXLSX {
		t.Errorf("Format() = %v, want %v", got, FormatXLSX)
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open generated workbook: %v", err)
	}
	return f
}

func TestExcelGenerator_Generate_Path(t *testing.T) {
	g := NewExcelGenerator()
	data := &Data{
		Type:        TypePath,
		Source:      "igp_nodes/A",
		Destination: "igp_nodes/B",
		Path:        samplePath(),
		Options:     &Options{IncludeRawData: true},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f := openWorkbook(t, out)
	defer f.Close()

	sheets := f.GetSheetList()
	found := false
	for _, s := range sheets {
		if s == "Path" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'Path' sheet, got %v", sheets)
	}

	v, _ := f.GetCellValue("Path", "B5")
	if v != "igp_nodes/A" {
		t.Errorf("expected source cell to read igp_nodes/A, got %q", v)
	}
}

func TestExcelGenerator_Generate_BestPaths(t *testing.T) {
	g := NewExcelGenerator()
	out, err := g.Generate(context.Background(), &Data{
		Type: TypeBestPaths,
		BestPaths: &pathengine.BestPathsResult{
			Found: true,
			Paths: []*graphmodel.Path{samplePath()},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f := openWorkbook(t, out)
	defer f.Close()
	if _, err := f.GetSheetIndex("BestPaths"); err != nil {
		t.Errorf("expected a 'BestPaths' sheet: %v", err)
	}
}

func TestExcelGenerator_Generate_LoadUpdate(t *testing.T) {
	g := NewExcelGenerator()
	out, err := g.Generate(context.Background(), &Data{
		Type: TypeLoadUpdate,
		LoadUpdate: &graphmodel.LoadReport{
			EdgeCount: 1,
			TotalLoad: 5,
			EdgeLoads: []graphmodel.EdgeLoad{{EdgeKey: "igp_links/A-B", Load: 5}},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f := openWorkbook(t, out)
	defer f.Close()
	v, _ := f.GetCellValue("LoadUpdate", "A12")
	if v != "Edge" {
		t.Errorf("expected edge-loads table header at A12, got %q", v)
	}
}

func TestExcelGenerator_Generate_UnsupportedType(t *testing.T) {
	g := NewExcelGenerator()
	if _, err := g.Generate(context.Background(), &Data{Type: Type("bogus")}); err == nil {
		t.Error("expected an error for an unsupported report type")
	}
}
