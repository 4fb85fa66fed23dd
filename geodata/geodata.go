// Package geodata loads the reference political map: state names with WKT
// polygon geometry. The dataset is read once at startup and read-only after.
package geodata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"

	"resgeo/types"
)

// Dataset is the loaded name -> region lookup.
type Dataset struct {
	regions map[string]types.GeoRegion
	names   []string
}

// Load reads the political-map CSV. Required columns: ST_NAME and geometry
// (WKT POLYGON or MULTIPOLYGON). Rows with unparseable geometry are skipped
// with a warning rather than failing the whole load.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geodata %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the dataset from an open CSV stream.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read geodata header: %w", err)
	}

	nameIdx, geomIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "ST_NAME":
			nameIdx = i
		case "geometry":
			geomIdx = i
		}
	}
	if nameIdx < 0 || geomIdx < 0 {
		return nil, fmt.Errorf("geodata missing ST_NAME/geometry columns, got %v", header)
	}

	ds := &Dataset{regions: make(map[string]types.GeoRegion)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read geodata row: %w", err)
		}
		if len(rec) <= nameIdx || len(rec) <= geomIdx {
			continue
		}

		name := strings.TrimSpace(rec[nameIdx])
		geomStr := strings.TrimSpace(rec[geomIdx])
		if name == "" || geomStr == "" {
			continue
		}

		geom, err := wkt.Unmarshal(geomStr)
		if err != nil {
			log.Printf("Warning: skipping %s, bad geometry: %v", name, err)
			continue
		}

		bound := geom.Bound()
		ds.regions[strings.ToLower(name)] = types.GeoRegion{
			Name:     name,
			Geometry: geom,
			Bounds: types.BoundingBox{
				MinLat: bound.Min.Lat(),
				MinLon: bound.Min.Lon(),
				MaxLat: bound.Max.Lat(),
				MaxLon: bound.Max.Lon(),
			},
		}
		ds.names = append(ds.names, name)
	}

	sort.Strings(ds.names)
	log.Printf("Loaded %d regions from geodata", len(ds.regions))
	return ds, nil
}

// Region looks a region up by name, case-insensitively.
func (d *Dataset) Region(name string) (types.GeoRegion, error) {
	region, ok := d.regions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return types.GeoRegion{}, &types.InvalidRegionError{Name: name, Reason: "not in reference dataset"}
	}
	if region.Geometry == nil || region.Bounds.Empty() {
		return types.GeoRegion{}, &types.InvalidRegionError{Name: name, Reason: "empty geometry"}
	}
	return region, nil
}

// Names returns the sorted region names.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}
