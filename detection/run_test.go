package detection

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"resgeo/geodata"
	"resgeo/imaging"
	"resgeo/report"
	"resgeo/tiles"
	"resgeo/types"
)

const testlandCSV = `ST_NAME,geometry
Testland,"POLYGON ((0 0, 1 0, 1 1, 0 1, 0 0))"
`

func testDataset(t *testing.T) *geodata.Dataset {
	t.Helper()
	ds, err := geodata.Parse(strings.NewReader(testlandCSV))
	if err != nil {
		t.Fatalf("parsing test dataset: %v", err)
	}
	return ds
}

func tilePNG(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGB(x, y, 30, 60, 200)
		}
	}
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		t.Fatalf("encoding tile png: %v", err)
	}
	return buf.Bytes()
}

// tileServer serves a valid PNG for every request except the failNth one.
func tileServer(t *testing.T, failNth int) *httptest.Server {
	t.Helper()
	png := tilePNG(t)
	var mu sync.Mutex
	count := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		n := count
		mu.Unlock()
		if n == failNth {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(png)
	}))
}

func testRunner(t *testing.T, srvURL, outputRoot string) *Runner {
	t.Helper()
	return &Runner{
		Dataset: testDataset(t),
		Fetcher: tiles.NewFetcher(srvURL + "/{z}/{y}/{x}"),
		Segmentation: &SegmentationStage{Predictor: &stubSegmenter{
			cm:     classMapWithWater(10, 10, 60),
			source: types.SourceModel,
		}},
		Gate: &FloodGate{
			CoverageThreshold:   50,
			ConfidenceThreshold: 0.6,
			Classifier:          &stubClassifier{probability: 0.9, source: types.SourceMock},
		},
		Victim: &VictimStage{Predictor: &stubDetector{
			detections: []types.Detection{{X1: 5, Y1: 30, X2: 20, Y2: 45, Confidence: 0.8, ClassName: "person"}},
			source:     types.SourceModel,
		}},
		OutputRoot: outputRoot,
	}
}

func TestRunFullPipeline(t *testing.T) {
	srv := tileServer(t, 2)
	defer srv.Close()

	outputRoot := t.TempDir()
	runner := testRunner(t, srv.URL, outputRoot)
	runner.PlaceName = func(lat, lon float64) (string, error) { return "Somewhere, Testland", nil }
	runner.Summarize = func(ctx context.Context, rep *types.RegionAnalysisReport) (string, error) {
		return "3 flooded tiles found.", nil
	}

	rep, err := runner.Run(context.Background(), "Testland", 100000, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.RunID == "" {
		t.Fatal("report has no run id")
	}
	if rep.TotalTiles != 4 || rep.FetchedTiles != 3 || rep.FailedTiles != 1 {
		t.Fatalf("tile counts = %d total, %d fetched, %d failed; want 4/3/1",
			rep.TotalTiles, rep.FetchedTiles, rep.FailedTiles)
	}
	if rep.AnalyzedTiles != 3 {
		t.Fatalf("AnalyzedTiles = %d, want 3", rep.AnalyzedTiles)
	}
	if rep.FloodedTiles != 3 || len(rep.Flagged) != 3 {
		t.Fatalf("FloodedTiles = %d, Flagged = %d; want 3/3", rep.FloodedTiles, len(rep.Flagged))
	}
	if rep.FloodedPercentage != 100 {
		t.Fatalf("FloodedPercentage = %v, want 100", rep.FloodedPercentage)
	}
	if !rep.Degraded {
		t.Fatal("mock classifier source should mark the report degraded")
	}

	for _, ft := range rep.Flagged {
		for _, path := range []string{ft.OriginalPath, ft.PredictionPath, ft.DetectionPath} {
			if path == "" {
				t.Fatalf("flagged tile %s missing an artifact path", ft.TileFile)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("flagged artifact %s not on disk: %v", path, err)
			}
		}
		if ft.DetectionCount != 1 {
			t.Fatalf("DetectionCount = %d, want 1", ft.DetectionCount)
		}
		if ft.Place != "Somewhere, Testland" {
			t.Fatalf("Place = %q", ft.Place)
		}
	}
	if rep.Summary != "3 flooded tiles found." {
		t.Fatalf("Summary = %q", rep.Summary)
	}

	// The flagged list is reconstructible from disk alone.
	flagged, err := report.ListFlagged(report.FlaggedDir(outputRoot, "Testland"))
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	if len(flagged) != 3 {
		t.Fatalf("ListFlagged = %d entries, want 3", len(flagged))
	}

	// The run was recorded in the export history.
	doc, err := report.Export(outputRoot)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if doc.TotalAnalyses != 1 || doc.TotalFlooded != 3 {
		t.Fatalf("export totals = %d analyses, %d flooded; want 1/3", doc.TotalAnalyses, doc.TotalFlooded)
	}
	if len(doc.RegionsCovered) != 1 || doc.RegionsCovered[0] != "Testland" {
		t.Fatalf("RegionsCovered = %v", doc.RegionsCovered)
	}
}

func TestRunNoFloodingBelowGate(t *testing.T) {
	srv := tileServer(t, -1)
	defer srv.Close()

	outputRoot := t.TempDir()
	runner := testRunner(t, srv.URL, outputRoot)
	runner.Segmentation = &SegmentationStage{Predictor: &stubSegmenter{
		cm:     classMapWithWater(10, 10, 20), // 20% water, below the gate
		source: types.SourceModel,
	}}

	rep, err := runner.Run(context.Background(), "Testland", 100000, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.FloodedTiles != 0 || len(rep.Flagged) != 0 {
		t.Fatalf("FloodedTiles = %d, want 0", rep.FloodedTiles)
	}
	if rep.FloodedPercentage != 0 {
		t.Fatalf("FloodedPercentage = %v, want 0", rep.FloodedPercentage)
	}
	if rep.AnalyzedTiles != 4 {
		t.Fatalf("AnalyzedTiles = %d, want 4", rep.AnalyzedTiles)
	}
}

func TestRunUnknownRegion(t *testing.T) {
	srv := tileServer(t, -1)
	defer srv.Close()

	runner := testRunner(t, srv.URL, t.TempDir())
	_, err := runner.Run(context.Background(), "Atlantis", 100000, nil, nil)

	var invErr *types.InvalidRegionError
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want InvalidRegionError", err)
	}
}

func TestRunCancellation(t *testing.T) {
	srv := tileServer(t, -1)
	defer srv.Close()

	runner := testRunner(t, srv.URL, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, "Testland", 100000, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestRunProgressCallbacks(t *testing.T) {
	srv := tileServer(t, -1)
	defer srv.Close()

	runner := testRunner(t, srv.URL, t.TempDir())

	var fetchP, analyzeP []float64
	_, err := runner.Run(context.Background(), "Testland", 100000,
		func(p float64) { fetchP = append(fetchP, p) },
		func(p float64) { analyzeP = append(analyzeP, p) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(fetchP) != 4 || fetchP[3] != 1.0 {
		t.Fatalf("fetch progress = %v, want 4 ticks ending at 1.0", fetchP)
	}
	if len(analyzeP) != 4 || analyzeP[3] != 1.0 {
		t.Fatalf("analyze progress = %v, want 4 ticks ending at 1.0", analyzeP)
	}
}
