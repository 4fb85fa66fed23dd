package tiles

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"resgeo/types"
)

func squareRegion(name string, minLat, minLon, maxLat, maxLon float64) types.GeoRegion {
	return types.GeoRegion{
		Name: name,
		Geometry: orb.Polygon{{
			{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
		}},
		Bounds: types.BoundingBox{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon},
	}
}

func TestPlanGridCoversBounds(t *testing.T) {
	region := squareRegion("Testland", 20.0, 75.0, 21.0, 76.5)

	spec, err := Plan(region, 10000)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if spec.LatTiles <= 0 || spec.LonTiles <= 0 {
		t.Fatalf("non-positive grid: %dx%d", spec.LatTiles, spec.LonTiles)
	}
	if spec.TotalTiles != spec.LatTiles*spec.LonTiles {
		t.Fatalf("TotalTiles %d != %d*%d", spec.TotalTiles, spec.LatTiles, spec.LonTiles)
	}

	// ceil(span/step) tiles must cover the full span.
	if float64(spec.LatTiles)*spec.LatStep < region.Bounds.MaxLat-region.Bounds.MinLat {
		t.Fatal("latitude tiles do not cover the bounds")
	}
	if float64(spec.LonTiles)*spec.LonStep < region.Bounds.MaxLon-region.Bounds.MinLon {
		t.Fatal("longitude tiles do not cover the bounds")
	}

	wantLat := int(math.Ceil(1.0 / spec.LatStep))
	if spec.LatTiles != wantLat {
		t.Fatalf("LatTiles = %d, want %d", spec.LatTiles, wantLat)
	}
}

func TestPlanLonStepWidensWithLatitude(t *testing.T) {
	equator := squareRegion("Equator", -0.5, 0, 0.5, 1)
	north := squareRegion("North", 59.5, 0, 60.5, 1)

	eqSpec, err := Plan(equator, 10000)
	if err != nil {
		t.Fatalf("Plan equator: %v", err)
	}
	noSpec, err := Plan(north, 10000)
	if err != nil {
		t.Fatalf("Plan north: %v", err)
	}

	if noSpec.LonStep <= eqSpec.LonStep {
		t.Fatalf("LonStep at 60N (%v) should exceed LonStep at equator (%v)", noSpec.LonStep, eqSpec.LonStep)
	}
	if noSpec.LatStep != eqSpec.LatStep {
		t.Fatalf("LatStep should not depend on latitude: %v vs %v", noSpec.LatStep, eqSpec.LatStep)
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	var invErr *types.InvalidRegionError

	_, err := Plan(types.GeoRegion{Name: "Nowhere"}, 10000)
	if !errors.As(err, &invErr) {
		t.Fatalf("missing geometry: got %v, want InvalidRegionError", err)
	}

	region := squareRegion("Testland", 20, 75, 21, 76)
	_, err = Plan(region, 0)
	if !errors.As(err, &invErr) {
		t.Fatalf("zero tile size: got %v, want InvalidRegionError", err)
	}
	_, err = Plan(region, -5)
	if !errors.As(err, &invErr) {
		t.Fatalf("negative tile size: got %v, want InvalidRegionError", err)
	}
}

func TestZoomForTileSize(t *testing.T) {
	cases := []struct {
		meters float64
		want   int
	}{
		{500, 17},
		{12500, 17},
		{12501, 16},
		{50000, 16},
		{50001, 15},
		{100000, 15},
	}
	for _, tc := range cases {
		if got := ZoomForTileSize(tc.meters); got != tc.want {
			t.Errorf("ZoomForTileSize(%v) = %d, want %d", tc.meters, got, tc.want)
		}
	}

	// Never increasing in tile size.
	prev := ZoomForTileSize(100)
	for m := 200.0; m <= 200000; m += 100 {
		z := ZoomForTileSize(m)
		if z > prev {
			t.Fatalf("zoom increased from %d to %d at %v m", prev, z, m)
		}
		prev = z
	}
}

func TestDeg2num(t *testing.T) {
	// Origin at zoom 1 falls in the bottom-right quadrant tile.
	x, y := Deg2num(0, 0, 1)
	if x != 1 || y != 1 {
		t.Fatalf("Deg2num(0,0,1) = (%d,%d), want (1,1)", x, y)
	}

	// Northern latitudes map to smaller y.
	_, yNorth := Deg2num(50, 10, 10)
	_, ySouth := Deg2num(-50, 10, 10)
	if yNorth >= ySouth {
		t.Fatalf("north y %d should be smaller than south y %d", yNorth, ySouth)
	}

	// Eastern longitudes map to larger x.
	xWest, _ := Deg2num(10, -50, 10)
	xEast, _ := Deg2num(10, 50, 10)
	if xEast <= xWest {
		t.Fatalf("east x %d should exceed west x %d", xEast, xWest)
	}
}
