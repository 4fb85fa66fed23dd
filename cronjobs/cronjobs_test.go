package cronjobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
	if err := os.Chtimes(dir, old, old); err != nil {
		t.Fatalf("chtimes %s: %v", dir, err)
	}
}

func TestSweepRemovesOnlyStaleOutput(t *testing.T) {
	outputRoot := t.TempDir()

	staleDir := filepath.Join(outputRoot, "Kerala")
	writeAged(t, staleDir, "tile.png", 48*time.Hour)

	freshDir := filepath.Join(outputRoot, "Assam")
	writeAged(t, freshDir, "tile.png", time.Minute)

	staleFlagged := filepath.Join(outputRoot, "flooded", "Kerala")
	writeAged(t, staleFlagged, "original_tile.png", 48*time.Hour)

	SweepStaleOutput(outputRoot, 24*time.Hour, nil)

	if _, err := os.Stat(staleDir); !os.IsNotExist(err) {
		t.Fatal("stale region directory survived the sweep")
	}
	if _, err := os.Stat(staleFlagged); !os.IsNotExist(err) {
		t.Fatal("stale flagged directory survived the sweep")
	}
	if _, err := os.Stat(freshDir); err != nil {
		t.Fatal("fresh region directory was swept")
	}
}

func TestSweepSkipsInFlightRegions(t *testing.T) {
	outputRoot := t.TempDir()

	dir := filepath.Join(outputRoot, "Kerala")
	writeAged(t, dir, "tile.png", 48*time.Hour)

	SweepStaleOutput(outputRoot, 24*time.Hour, func(regionDir string) bool {
		return regionDir == "Kerala"
	})

	if _, err := os.Stat(dir); err != nil {
		t.Fatal("in-flight region was swept")
	}
}

func TestSweepIgnoresFloodedRootEntry(t *testing.T) {
	outputRoot := t.TempDir()

	// The flooded/ container itself must never be treated as a region dir,
	// even when everything inside is old.
	staleFlagged := filepath.Join(outputRoot, "flooded", "Kerala")
	writeAged(t, staleFlagged, "original_tile.png", 48*time.Hour)

	SweepStaleOutput(outputRoot, 24*time.Hour, nil)

	if _, err := os.Stat(filepath.Join(outputRoot, "flooded")); err != nil {
		t.Fatal("flooded container directory was removed")
	}
}

func TestSweepMissingRoot(t *testing.T) {
	// A nonexistent output root is fine, the sweep is a no-op.
	SweepStaleOutput(filepath.Join(t.TempDir(), "nope"), time.Hour, nil)
}
