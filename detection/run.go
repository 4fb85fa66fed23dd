package detection

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"resgeo/geodata"
	"resgeo/imaging"
	"resgeo/report"
	"resgeo/tiles"
	"resgeo/types"
)

// Runner wires acquisition and the inference stages into the full per-region
// analysis. One Run owns its output directories exclusively.
type Runner struct {
	Dataset      *geodata.Dataset
	Fetcher      *tiles.Fetcher
	Segmentation *SegmentationStage
	Gate         *FloodGate
	Victim       *VictimStage
	OutputRoot   string

	// Optional best-effort enrichment; failures only log.
	PlaceName func(lat, lon float64) (string, error)
	Summarize func(ctx context.Context, rep *types.RegionAnalysisReport) (string, error)
}

// Run performs acquisition plus the per-tile inference chain for one region.
// Per-tile failures (fetch, decode, inference) are recorded and skipped; only
// region-level failures (unknown region, filesystem, cancellation) propagate.
func (r *Runner) Run(ctx context.Context, stateName string, tileSizeMeters float64, fetchProgress, analyzeProgress func(float64)) (*types.RegionAnalysisReport, error) {
	region, err := r.Dataset.Region(stateName)
	if err != nil {
		return nil, err
	}

	spec, err := tiles.Plan(region, tileSizeMeters)
	if err != nil {
		return nil, err
	}
	log.Printf("Starting analysis for %s: %dx%d grid, zoom %d", region.Name, spec.LatTiles, spec.LonTiles, spec.Zoom)

	outputDir := filepath.Join(r.OutputRoot, region.DirName())
	records, fetched, total, err := tiles.Acquire(ctx, spec, region.Bounds, outputDir, r.Fetcher, fetchProgress)
	if err != nil {
		return nil, err
	}

	flaggedDir := report.FlaggedDir(r.OutputRoot, region.DirName())

	rep := &types.RegionAnalysisReport{
		RunID:        uuid.NewString(),
		Region:       region.Name,
		GeneratedAt:  time.Now().UTC(),
		Grid:         spec,
		TotalTiles:   total,
		FetchedTiles: fetched,
		FailedTiles:  total - fetched,
	}

	processed := 0
	for _, record := range records {
		if record.Outcome != types.Fetched {
			continue
		}
		processed++

		flagged, degraded, err := r.analyzeTile(record, flaggedDir)
		if err != nil {
			var fsErr *types.FilesystemError
			if errors.As(err, &fsErr) {
				return nil, err
			}
			log.Printf("Skipping tile %s: %v", filepath.Base(record.Path), err)
		} else {
			rep.AnalyzedTiles++
			if degraded {
				rep.Degraded = true
			}
			if flagged != nil {
				rep.FloodedTiles++
				rep.Flagged = append(rep.Flagged, *flagged)
			}
		}

		if analyzeProgress != nil && fetched > 0 {
			analyzeProgress(float64(processed) / float64(fetched))
		}
	}

	rep.FloodedPercentage = report.FloodedPercentage(rep.FloodedTiles, rep.AnalyzedTiles)

	r.enrich(ctx, rep)

	if err := report.AppendHistory(r.OutputRoot, types.RunSummary{
		RunID:             rep.RunID,
		Region:            rep.Region,
		Timestamp:         rep.GeneratedAt,
		TotalTiles:        rep.TotalTiles,
		FetchedTiles:      rep.FetchedTiles,
		FloodedTiles:      rep.FloodedTiles,
		FloodedPercentage: rep.FloodedPercentage,
		Degraded:          rep.Degraded,
	}); err != nil {
		log.Printf("Warning: could not record run history: %v", err)
	}

	log.Printf("Analysis complete for %s: %d/%d analyzed, %d flooded (%.1f%%)",
		rep.Region, rep.AnalyzedTiles, rep.FetchedTiles, rep.FloodedTiles, rep.FloodedPercentage)
	return rep, nil
}

// analyzeTile runs segmentation, the flood gate and (when triggered) thermal
// synthesis plus detection for one fetched tile. A non-nil FlaggedTile means
// the tile escalated and its artifact pair is on disk.
func (r *Runner) analyzeTile(record types.TileRecord, flaggedDir string) (*types.FlaggedTile, bool, error) {
	img, err := imaging.DecodeFile(record.Path)
	if err != nil {
		return nil, false, err
	}

	seg, err := r.Segmentation.Segment(img)
	if err != nil {
		return nil, false, err
	}
	degraded := seg.Result.Source != types.SourceModel

	classification, err := r.Gate.Classify(img, seg.Result.WaterPercentage)
	if err != nil {
		return nil, degraded, err
	}
	if classification.Source == types.SourceMock {
		degraded = true
	}
	if !classification.Triggered {
		return nil, degraded, nil
	}

	thermal := imaging.Thermal(img)
	detections, err := r.Victim.Detect(thermal)
	if err != nil {
		return nil, degraded, err
	}
	if detections.Source == types.SourceUnavailable {
		degraded = true
	}

	tileFile := filepath.Base(record.Path)
	origPath, predPath, err := report.SaveFlaggedPair(flaggedDir, tileFile, img, seg.Visualization)
	if err != nil {
		return nil, degraded, err
	}

	flagged := &types.FlaggedTile{
		TileFile:         tileFile,
		WaterPercentage:  seg.Result.WaterPercentage,
		FloodProbability: classification.Probability,
		OriginalPath:     origPath,
		PredictionPath:   predPath,
		DetectionCount:   detections.Count,
		CenterLat:        record.CenterLat,
		CenterLon:        record.CenterLon,
	}

	if detections.Count > 0 {
		annotated := Annotate(thermal, detections.Detections)
		detPath, err := report.SaveDetectionOverlay(flaggedDir, tileFile, annotated)
		if err != nil {
			return nil, degraded, err
		}
		flagged.DetectionPath = detPath
	}

	return flagged, degraded, nil
}

// enrich adds best-effort place names and a prose summary.
func (r *Runner) enrich(ctx context.Context, rep *types.RegionAnalysisReport) {
	if r.PlaceName != nil {
		for i := range rep.Flagged {
			place, err := r.PlaceName(rep.Flagged[i].CenterLat, rep.Flagged[i].CenterLon)
			if err != nil {
				log.Printf("Warning: reverse geocode failed for flagged tile %s: %v", rep.Flagged[i].TileFile, err)
				break // one failure means the rest will likely fail too
			}
			rep.Flagged[i].Place = place
		}
	}
	if r.Summarize != nil {
		summary, err := r.Summarize(ctx, rep)
		if err != nil {
			log.Printf("Warning: summary generation failed: %v", err)
		} else {
			rep.Summary = summary
		}
	}
}
