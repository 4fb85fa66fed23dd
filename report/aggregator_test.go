package report

import (
	"os"
	"path/filepath"
	"testing"

	"resgeo/imaging"
)

func solidImage(w, h int, r, g, b uint8) *imaging.Image {
	m := imaging.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGB(x, y, r, g, b)
		}
	}
	return m
}

func TestFloodedPercentage(t *testing.T) {
	if got := FloodedPercentage(0, 0); got != 0 {
		t.Fatalf("0/0 = %v, want 0", got)
	}
	if got := FloodedPercentage(3, 4); got != 75 {
		t.Fatalf("3/4 = %v, want 75", got)
	}
	if got := FloodedPercentage(4, 4); got != 100 {
		t.Fatalf("4/4 = %v, want 100", got)
	}
}

func TestSaveFlaggedPairAndList(t *testing.T) {
	dir := FlaggedDir(t.TempDir(), "Kerala")

	orig := solidImage(8, 8, 10, 10, 10)
	pred := solidImage(8, 8, 0, 26, 255)

	origPath, predPath, err := SaveFlaggedPair(dir, "tile_0_0_z15_x100_y200.png", orig, pred)
	if err != nil {
		t.Fatalf("SaveFlaggedPair: %v", err)
	}
	for _, p := range []string{origPath, predPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("artifact %s not written: %v", p, err)
		}
	}
	if filepath.Base(origPath) != "original_tile_0_0_z15_x100_y200.png" {
		t.Fatalf("original artifact name %q", filepath.Base(origPath))
	}
	if filepath.Base(predPath) != "prediction_tile_0_0_z15_x100_y200.png" {
		t.Fatalf("prediction artifact name %q", filepath.Base(predPath))
	}

	flagged, err := ListFlagged(dir)
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	if len(flagged) != 1 {
		t.Fatalf("ListFlagged = %d entries, want 1", len(flagged))
	}
	ft := flagged[0]
	if ft.TileFile != "tile_0_0_z15_x100_y200.png" {
		t.Fatalf("TileFile = %q", ft.TileFile)
	}
	if ft.DetectionPath != "" {
		t.Fatal("DetectionPath should be empty with no overlay saved")
	}
}

func TestListFlaggedPicksUpDetectionOverlay(t *testing.T) {
	dir := FlaggedDir(t.TempDir(), "Kerala")
	tileFile := "tile_1_2_z16_x5_y6.png"

	if _, _, err := SaveFlaggedPair(dir, tileFile, solidImage(4, 4, 0, 0, 0), solidImage(4, 4, 1, 1, 1)); err != nil {
		t.Fatalf("SaveFlaggedPair: %v", err)
	}
	if _, err := SaveDetectionOverlay(dir, tileFile, solidImage(4, 4, 2, 2, 2)); err != nil {
		t.Fatalf("SaveDetectionOverlay: %v", err)
	}

	flagged, err := ListFlagged(dir)
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	if len(flagged) != 1 || flagged[0].DetectionPath == "" {
		t.Fatalf("detection overlay not paired: %+v", flagged)
	}
}

func TestListFlaggedIgnoresUnpaired(t *testing.T) {
	dir := FlaggedDir(t.TempDir(), "Kerala")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Original with no matching prediction.
	if err := solidImage(4, 4, 0, 0, 0).WriteFile(filepath.Join(dir, "original_orphan.png")); err != nil {
		t.Fatalf("write: %v", err)
	}

	flagged, err := ListFlagged(dir)
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	if len(flagged) != 0 {
		t.Fatalf("unpaired original listed: %+v", flagged)
	}
}

func TestListFlaggedMissingDir(t *testing.T) {
	flagged, err := ListFlagged(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ListFlagged on missing dir: %v", err)
	}
	if len(flagged) != 0 {
		t.Fatalf("got %d entries from a missing dir", len(flagged))
	}
}

func TestListFlaggedSorted(t *testing.T) {
	dir := FlaggedDir(t.TempDir(), "Kerala")
	for _, tf := range []string{"tile_b.png", "tile_a.png", "tile_c.png"} {
		if _, _, err := SaveFlaggedPair(dir, tf, solidImage(2, 2, 0, 0, 0), solidImage(2, 2, 0, 0, 0)); err != nil {
			t.Fatalf("SaveFlaggedPair: %v", err)
		}
	}

	flagged, err := ListFlagged(dir)
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	want := []string{"tile_a.png", "tile_b.png", "tile_c.png"}
	for i, ft := range flagged {
		if ft.TileFile != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, ft.TileFile, want[i])
		}
	}
}

func TestReset(t *testing.T) {
	outputRoot := t.TempDir()

	tileDir := filepath.Join(outputRoot, "Kerala")
	if err := os.MkdirAll(tileDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, _, err := SaveFlaggedPair(FlaggedDir(outputRoot, "Kerala"), "t.png",
		solidImage(2, 2, 0, 0, 0), solidImage(2, 2, 0, 0, 0)); err != nil {
		t.Fatalf("SaveFlaggedPair: %v", err)
	}

	if err := Reset(outputRoot, "Kerala"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := os.Stat(tileDir); !os.IsNotExist(err) {
		t.Fatal("tile directory survived reset")
	}
	if _, err := os.Stat(FlaggedDir(outputRoot, "Kerala")); !os.IsNotExist(err) {
		t.Fatal("flagged directory survived reset")
	}

	// Resetting an already-clean state is fine.
	if err := Reset(outputRoot, "Kerala"); err != nil {
		t.Fatalf("second Reset: %v", err)
	}
}
