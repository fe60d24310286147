package report

import (
	"context"
	"testing"

	"jalapeno/internal/graphmodel"
	"jalapeno/internal/pathengine"
	"jalapeno/internal/rpo"
)

func TestNewPDFGenerator(t *testing.T) {
	if g := NewPDFGenerator(); g == nil {
		t.Fatal("NewPDFGenerator() returned nil")
	}
}

func TestPDFGenerator_Format(t *testing.T) {
	if got := NewPDFGenerator().Format(); got != FormatPDF {
		t.Errorf("Format() = %v, want %v", got, FormatPDF)
	}
}

func TestPDFGenerator_Generate_Path(t *testing.T) {
	g := NewPDFGenerator()
	data := &Data{
		Type:        TypePath,
		Source:      "igp_nodes/A",
		Destination: "igp_nodes/B",
		Path:        samplePath(),
		Options:     &Options{IncludeRawData: true, IncludeCarrier: true},
		Carrier:     &graphmodel.Carrier{SRv6USID: "fc00:0:1:2::"},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty pdf bytes")
	}
	if string(out[:4]) != "%PDF" {
		t.Errorf("expected a PDF header, got %q", out[:4])
	}
}

func TestPDFGenerator_Generate_NoPath(t *testing.T) {
	g := NewPDFGenerator()
	out, err := g.Generate(context.Background(), &Data{Type: TypePath})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty pdf bytes even with no path data")
	}
}

func TestPDFGenerator_Generate_BestPaths(t *testing.T) {
	g := NewPDFGenerator()
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
	if len(out) == 0 {
		t.Error("expected non-empty pdf bytes")
	}
}

func TestPDFGenerator_Generate_LoadUpdate(t *testing.T) {
	g := NewPDFGenerator()
	out, err := g.Generate(context.Background(), &Data{
		Type: TypeLoadUpdate,
		LoadUpdate: &graphmodel.LoadReport{
			EdgeCount: 1,
			TotalLoad: 5,
			HighestLoad: graphmodel.EdgeLoad{EdgeKey: "igp_links/A-B", Load: 5},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty pdf bytes")
	}
}

func TestPDFGenerator_Generate_RPOSelection(t *testing.T) {
	g := NewPDFGenerator()
	out, err := g.Generate(context.Background(), &Data{
		Type: TypeRPOSelection,
		RPO: &rpo.Result{
			Metric:               "cpu_utilization",
			OptimizationStrategy: rpo.StrategyMinimize,
			Path:                 samplePath(),
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty pdf bytes")
	}
}

func TestPDFGenerator_Generate_UnsupportedType(t *testing.T) {
	g := NewPDFGenerator()
	if _, err := g.Generate(context.Background(), &Data{Type: Type("bogus")}); err == nil {
		t.Error("expected an error for an unsupported report type")
	}
}
