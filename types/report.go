package types

import "time"

// FlaggedTile is one tile that passed the escalation gate, with its persisted
// original/prediction image pair.
type FlaggedTile struct {
	TileFile         string  `json:"tile_file"`
	WaterPercentage  float64 `json:"water_percentage"`
	FloodProbability float64 `json:"flood_probability,omitempty"`
	OriginalPath     string  `json:"original_path"`
	PredictionPath   string  `json:"prediction_path"`
	DetectionPath    string  `json:"detection_path,omitempty"`
	DetectionCount   int     `json:"detection_count"`
	CenterLat        float64 `json:"center_lat,omitempty"`
	CenterLon        float64 `json:"center_lon,omitempty"`
	Place            string  `json:"place,omitempty"`
}

// RegionAnalysisReport aggregates one full acquisition+inference run.
// A later run for the same region supersedes it entirely.
type RegionAnalysisReport struct {
	RunID       string    `json:"run_id"`
	Region      string    `json:"region"`
	GeneratedAt time.Time `json:"generated_at"`

	Grid TileGridSpec `json:"grid"`

	TotalTiles    int `json:"total_tiles"`
	FetchedTiles  int `json:"fetched_tiles"`
	FailedTiles   int `json:"failed_tiles"`
	AnalyzedTiles int `json:"analyzed_tiles"`
	FloodedTiles  int `json:"flooded_tiles"`

	FloodedPercentage float64 `json:"flooded_percentage"`

	Flagged []FlaggedTile `json:"flagged"`

	// Degraded is set when any stage fell back to its mock; the numbers are
	// then illustrative, not authoritative.
	Degraded bool   `json:"degraded"`
	Summary  string `json:"summary,omitempty"`
}

// RunSummary is the compact form of a report kept in the export history.
type RunSummary struct {
	RunID             string    `json:"run_id"`
	Region            string    `json:"region"`
	Timestamp         time.Time `json:"timestamp"`
	TotalTiles        int       `json:"total_tiles"`
	FetchedTiles      int       `json:"fetched_tiles"`
	FloodedTiles      int       `json:"flooded_tiles"`
	FloodedPercentage float64   `json:"flooded_percentage"`
	Degraded          bool      `json:"degraded"`
}

// ExportDocument is the offline-audit download produced by the export endpoint.
type ExportDocument struct {
	ExportedAt     time.Time    `json:"exported_at"`
	TotalAnalyses  int          `json:"total_analyses"`
	TotalFlooded   int          `json:"total_flooded_tiles"`
	RegionsCovered []string     `json:"regions_covered"`
	History        []RunSummary `json:"history"`
}
