// Package report aggregates per-tile outcomes into region-level reports and
// owns the flagged-tile output layout on disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"resgeo/imaging"
	"resgeo/types"
)

const (
	originalPrefix   = "original_"
	predictionPrefix = "prediction_"
	detectionPrefix  = "detection_"
)

// FloodedPercentage is 100 * flooded / analyzed, 0 when nothing was analyzed.
func FloodedPercentage(flooded, analyzed int) float64 {
	if analyzed == 0 {
		return 0
	}
	return 100 * float64(flooded) / float64(analyzed)
}

// FlaggedDir is the per-region directory holding flagged-tile image pairs.
func FlaggedDir(outputRoot, regionDirName string) string {
	return filepath.Join(outputRoot, "flooded", regionDirName)
}

// SaveFlaggedPair persists the original tile and its prediction visualization
// under the deterministic pairing convention. Returns the two paths.
func SaveFlaggedPair(flaggedDir, tileFile string, original, prediction *imaging.Image) (string, string, error) {
	if err := os.MkdirAll(flaggedDir, 0o755); err != nil {
		return "", "", &types.FilesystemError{Op: "mkdir", Path: flaggedDir, Err: err}
	}

	origPath := filepath.Join(flaggedDir, originalPrefix+tileFile)
	predPath := filepath.Join(flaggedDir, predictionPrefix+tileFile)

	if err := original.WriteFile(origPath); err != nil {
		return "", "", &types.FilesystemError{Op: "write", Path: origPath, Err: err}
	}
	if err := prediction.WriteFile(predPath); err != nil {
		return "", "", &types.FilesystemError{Op: "write", Path: predPath, Err: err}
	}
	return origPath, predPath, nil
}

// SaveDetectionOverlay persists the annotated thermal image beside the pair.
func SaveDetectionOverlay(flaggedDir, tileFile string, annotated *imaging.Image) (string, error) {
	path := filepath.Join(flaggedDir, detectionPrefix+tileFile)
	if err := annotated.WriteFile(path); err != nil {
		return "", &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

// ListFlagged reconstructs the flagged-tile list from the directory alone by
// pairing original_/prediction_ files. Works after a process restart; a
// missing directory just yields an empty list.
func ListFlagged(flaggedDir string) ([]types.FlaggedTile, error) {
	entries, err := os.ReadDir(flaggedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list flagged dir %s: %w", flaggedDir, err)
	}

	var flagged []types.FlaggedTile
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, originalPrefix) {
			continue
		}
		tileFile := strings.TrimPrefix(name, originalPrefix)
		predPath := filepath.Join(flaggedDir, predictionPrefix+tileFile)
		if _, err := os.Stat(predPath); err != nil {
			continue // unpaired, ignore
		}

		ft := types.FlaggedTile{
			TileFile:       tileFile,
			OriginalPath:   filepath.Join(flaggedDir, name),
			PredictionPath: predPath,
		}
		detPath := filepath.Join(flaggedDir, detectionPrefix+tileFile)
		if _, err := os.Stat(detPath); err == nil {
			ft.DetectionPath = detPath
		}
		flagged = append(flagged, ft)
	}

	sort.Slice(flagged, func(i, j int) bool { return flagged[i].TileFile < flagged[j].TileFile })
	return flagged, nil
}

// Reset deletes a region's raw tiles and flagged output. Callers must not
// interleave this with an in-flight acquisition for the same region.
func Reset(outputRoot, regionDirName string) error {
	for _, dir := range []string{
		filepath.Join(outputRoot, regionDirName),
		FlaggedDir(outputRoot, regionDirName),
	} {
		if err := os.RemoveAll(dir); err != nil {
			return &types.FilesystemError{Op: "remove", Path: dir, Err: err}
		}
	}
	return nil
}
