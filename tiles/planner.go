// Package tiles plans, fetches and persists satellite map tiles for a region.
package tiles

import (
	"math"

	"resgeo/types"
)

// Meters per degree of latitude; longitude scales by cos(latitude).
// A flat-earth approximation, fine for tile footprints up to ~100 km.
const metersPerDegree = 111320.0

// Plan derives the tile grid for a region at the requested tile size.
// Pure and deterministic; no I/O.
func Plan(region types.GeoRegion, tileSizeMeters float64) (types.TileGridSpec, error) {
	if region.Geometry == nil || region.Bounds.Empty() {
		return types.TileGridSpec{}, &types.InvalidRegionError{Name: region.Name, Reason: "no geometry"}
	}
	if tileSizeMeters <= 0 {
		return types.TileGridSpec{}, &types.InvalidRegionError{Name: region.Name, Reason: "non-positive tile size"}
	}

	b := region.Bounds
	centerLat := (b.MinLat + b.MaxLat) / 2
	centerLon := (b.MinLon + b.MaxLon) / 2

	latStep := metersToDegreesLat(tileSizeMeters)
	lonStep := metersToDegreesLon(centerLat, tileSizeMeters)

	latTiles := int(math.Ceil((b.MaxLat - b.MinLat) / latStep))
	lonTiles := int(math.Ceil((b.MaxLon - b.MinLon) / lonStep))

	return types.TileGridSpec{
		CenterLat:      centerLat,
		CenterLon:      centerLon,
		TileSizeMeters: tileSizeMeters,
		LatStep:        latStep,
		LonStep:        lonStep,
		LatTiles:       latTiles,
		LonTiles:       lonTiles,
		TotalTiles:     latTiles * lonTiles,
		Zoom:           ZoomForTileSize(tileSizeMeters),
	}, nil
}

// ZoomForTileSize is the three-tier step function: smaller footprints get
// higher zoom. Non-increasing in tileSizeMeters.
func ZoomForTileSize(tileSizeMeters float64) int {
	switch {
	case tileSizeMeters <= 12500:
		return 17
	case tileSizeMeters <= 50000:
		return 16
	default:
		return 15
	}
}

func metersToDegreesLat(meters float64) float64 {
	return meters / metersPerDegree
}

func metersToDegreesLon(lat, meters float64) float64 {
	return meters / (math.Cos(lat*math.Pi/180) * metersPerDegree)
}

// Deg2num converts a lat/lon to slippy-map tile coordinates at the given zoom.
func Deg2num(lat, lon float64, zoom int) (x, y int) {
	latRad := lat * math.Pi / 180
	n := math.Exp2(float64(zoom))
	x = int((lon + 180.0) / 360.0 * n)
	y = int((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	return x, y
}
