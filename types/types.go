package types

import (
	"strings"

	"github.com/paulmach/orb"
)

// BoundingBox is a geographic bounding box in decimal degrees.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Empty reports whether the box has no area.
func (b BoundingBox) Empty() bool {
	return b.MaxLat <= b.MinLat || b.MaxLon <= b.MinLon
}

// GeoRegion is a named area (state) with its boundary geometry. Loaded once
// from the reference dataset and read-only afterwards.
type GeoRegion struct {
	Name     string
	Geometry orb.Geometry
	Bounds   BoundingBox
}

// DirName returns the on-disk directory name for the region
// ("Tamil Nadu" -> "Tamil_Nadu").
func (r GeoRegion) DirName() string {
	return strings.ReplaceAll(r.Name, " ", "_")
}

// TileGridSpec describes the tile grid derived from a region and a tile size.
// rows*cols == TotalTiles always holds; Zoom is a pure function of TileSizeMeters.
type TileGridSpec struct {
	CenterLat      float64 `json:"center_lat"`
	CenterLon      float64 `json:"center_lon"`
	TileSizeMeters float64 `json:"tile_size_meters"`
	LatStep        float64 `json:"lat_step"`
	LonStep        float64 `json:"lon_step"`
	LatTiles       int     `json:"lat_tiles"`
	LonTiles       int     `json:"lon_tiles"`
	TotalTiles     int     `json:"total_tiles"`
	Zoom           int     `json:"zoom"`
}

// FetchOutcome is the per-tile acquisition state.
type FetchOutcome int

const (
	FetchPending FetchOutcome = iota
	Fetched
	FetchFailed
)

func (o FetchOutcome) String() string {
	switch o {
	case Fetched:
		return "fetched"
	case FetchFailed:
		return "failed"
	default:
		return "pending"
	}
}

// TileRecord is one grid cell of an acquisition run.
type TileRecord struct {
	Row       int          `json:"row"`
	Col       int          `json:"col"`
	TileX     int          `json:"tile_x"`
	TileY     int          `json:"tile_y"`
	CenterLat float64      `json:"center_lat"`
	CenterLon float64      `json:"center_lon"`
	Path      string       `json:"path"`
	Outcome   FetchOutcome `json:"outcome"`
}
