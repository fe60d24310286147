package report

import (
	"context"
	"strings"
	"testing"

	"jalapeno/internal/graphmodel"
	"jalapeno/internal/pathengine"
	"jalapeno/internal/rpo"
)

func samplePath() *graphmodel.Path {
	lat := 12.5
	return &graphmodel.Path{
		Found:    true,
		Hopcount: 1,
		Hops: []graphmodel.Hop{
			{Vertex: &graphmodel.Vertex{ID: "igp_nodes/A", Kind: graphmodel.VertexKindIGPNode},
				Edge: &graphmodel.Edge{ID: "igp_links/A-B", Latency: 12.5}},
			{Vertex: &graphmodel.Vertex{ID: "igp_nodes/B", Kind: graphmodel.VertexKindIGPNode}},
		},
		TotalLatency: &lat,
	}
}

func TestNewCSVGenerator(t *testing.T) {
	if g := NewCSVGenerator(); g == nil {
		t.Fatal("NewCSVGenerator() returned nil")
	}
}

func TestCSVGenerator_Format(t *testing.T) {
	if got := NewCSVGenerator().Format(); got != FormatCSV {
		t.Errorf("Format() = %v, want %v", got, FormatCSV)
	}
}

func TestCSVGenerator_Generate_Path(t *testing.T) {
	g := NewCSVGenerator()
	data := &Data{
		Type:        TypePath,
		Collection:  "igp_nodes",
		Source:      "igp_nodes/A",
		Destination: "igp_nodes/B",
		Path:        samplePath(),
		Options:     &Options{IncludeRawData: true},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	csv := string(out)
	if !strings.Contains(csv, "Shortest Path Report") {
		t.Error("expected csv to contain the report title")
	}
	if !strings.Contains(csv, "igp_nodes/A") {
		t.Error("expected csv to contain the source vertex")
	}
	if !strings.Contains(csv, "Hops") {
		t.Error("expected csv to contain the hops section when raw data is requested")
	}
}

func TestCSVGenerator_Generate_PathNoRawData(t *testing.T) {
	g := NewCSVGenerator()
	data := &Data{
		Type:    TypePath,
		Path:    samplePath(),
		Options: &Options{IncludeRawData: false},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(string(out), "Hops\n") {
		t.Error("did not expect hops section when raw data is disabled")
	}
}

func TestCSVGenerator_Generate_NoPath(t *testing.T) {
	g := NewCSVGenerator()
	out, err := g.Generate(context.Background(), &Data{Type: TypePath})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(out), "No path data") {
		t.Error("expected placeholder text for a nil path")
	}
}

func TestCSVGenerator_Generate_BestPaths(t *testing.T) {
	g := NewCSVGenerator()
	data := &Data{
		Type: TypeBestPaths,
		BestPaths: &pathengine.BestPathsResult{
			Found: true,
			Paths: []*graphmodel.Path{samplePath(), samplePath()},
		},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	csv := string(out)
	if !strings.Contains(csv, "Candidate 1") || !strings.Contains(csv, "Candidate 2") {
		t.Error("expected both candidates to be rendered")
	}
}

func TestCSVGenerator_Generate_BestPathsNotFound(t *testing.T) {
	g := NewCSVGenerator()
	out, err := g.Generate(context.Background(), &Data{
		Type:      TypeBestPaths,
		BestPaths: &pathengine.BestPathsResult{Found: false},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(out), "No paths found") {
		t.Error("expected placeholder text when no paths were found")
	}
}

func TestCSVGenerator_Generate_LoadUpdate(t *testing.T) {
	g := NewCSVGenerator()
	data := &Data{
		Type:          TypeLoadUpdate,
		Collection:    "igp_links",
		LoadIncrement: 5,
		LoadUpdate: &graphmodel.LoadReport{
			EdgeCount:   2,
			TotalLoad:   15,
			AverageLoad: 7.5,
			HighestLoad: graphmodel.EdgeLoad{EdgeKey: "igp_links/A-B", Load: 10},
			EdgeLoads: []graphmodel.EdgeLoad{
				{EdgeKey: "igp_links/A-B", Load: 10},
				{EdgeKey: "igp_links/B-C", Load: 5},
			},
		},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	csv := string(out)
	if !strings.Contains(csv, "igp_links/A-B") {
		t.Error("expected edge loads to be listed")
	}
	if !strings.Contains(csv, "Highest Load Edge") {
		t.Error("expected highest load summary row")
	}
}

func TestCSVGenerator_Generate_RPOSelection(t *testing.T) {
	g := NewCSVGenerator()
	data := &Data{
		Type: TypeRPOSelection,
		RPO: &rpo.Result{
			Metric:                  "response_time",
			OptimizationStrategy:    rpo.StrategyMinimize,
			MetricValue:             12.5,
			TotalEndpointsEvaluated: 4,
			ValidEndpointsCount:     3,
			Path:                    samplePath(),
		},
	}

	out, err := g.Generate(context.Background(), data)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(out), "response_time") {
		t.Error("expected metric name to be present")
	}
}

func TestCSVGenerator_Generate_UnsupportedType(t *testing.T) {
	g := NewCSVGenerator()
	if _, err := g.Generate(context.Background(), &Data{Type: Type("bogus")}); err == nil {
		t.Error("expected an error for an unsupported report type")
	}
}
