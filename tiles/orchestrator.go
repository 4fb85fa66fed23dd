package tiles

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"resgeo/types"
)

// Acquire walks the full grid in row-major order, fetching every tile into
// outputDir. Failures never stop the walk. onProgress (optional) fires after
// every tile with tilesProcessed/totalTiles, reaching exactly 1.0 at the end.
// The context is checked between tiles; on cancellation the records collected
// so far are returned along with ctx.Err().
//
// Returns the per-tile records and the success/total counts.
func Acquire(ctx context.Context, spec types.TileGridSpec, bounds types.BoundingBox, outputDir string, fetcher *Fetcher, onProgress func(float64)) ([]types.TileRecord, int, int, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, 0, 0, &types.FilesystemError{Op: "mkdir", Path: outputDir, Err: err}
	}

	records := make([]types.TileRecord, 0, spec.TotalTiles)
	successful := 0
	processed := 0

	for i := 0; i < spec.LatTiles; i++ {
		for j := 0; j < spec.LonTiles; j++ {
			if err := ctx.Err(); err != nil {
				log.Printf("Acquisition cancelled after %d/%d tiles", processed, spec.TotalTiles)
				return records, successful, processed, err
			}

			tileMinLat := bounds.MinLat + float64(i)*spec.LatStep
			tileMaxLat := math.Min(bounds.MinLat+float64(i+1)*spec.LatStep, bounds.MaxLat)
			tileMinLon := bounds.MinLon + float64(j)*spec.LonStep
			tileMaxLon := math.Min(bounds.MinLon+float64(j+1)*spec.LonStep, bounds.MaxLon)

			centerLat := (tileMinLat + tileMaxLat) / 2
			centerLon := (tileMinLon + tileMaxLon) / 2

			x, y := Deg2num(centerLat, centerLon, spec.Zoom)

			filename := TileFilename(i, j, spec.Zoom, x, y)
			path := filepath.Join(outputDir, filename)

			record := types.TileRecord{
				Row:       i,
				Col:       j,
				TileX:     x,
				TileY:     y,
				CenterLat: centerLat,
				CenterLon: centerLon,
				Path:      path,
				Outcome:   types.FetchPending,
			}

			record.Outcome = fetcher.Fetch(x, y, spec.Zoom, path)
			if record.Outcome == types.Fetched {
				successful++
			}
			records = append(records, record)
			processed++

			if onProgress != nil {
				onProgress(float64(processed) / float64(spec.TotalTiles))
			}
		}
	}

	log.Printf("Acquisition complete: %d/%d tiles fetched into %s", successful, processed, outputDir)
	return records, successful, processed, nil
}

// TileFilename encodes the grid cell and tile-server address deterministically.
func TileFilename(row, col, zoom, x, y int) string {
	return fmt.Sprintf("tile_%d_%d_z%d_x%d_y%d.png", row, col, zoom, x, y)
}
