package config

import (
	"os"
	"strconv"
	"time"
)

// StateInfo holds the map-centering info for one Indian state.
type StateInfo struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// StatesData mirrors the reference political map: state name -> center + display zoom.
var StatesData = map[string]StateInfo{
	"Andhra Pradesh":    {15.9129, 79.7400, 7},
	"Arunachal Pradesh": {28.2180, 94.7278, 7},
	"Assam":             {26.2006, 92.9376, 7},
	"Bihar":             {25.0961, 85.3131, 7},
	"Chhattisgarh":      {21.2787, 81.8661, 7},
	"Goa":               {15.2993, 74.1240, 9},
	"Gujarat":           {23.0225, 72.5714, 7},
	"Haryana":           {29.0588, 76.0856, 8},
	"Himachal Pradesh":  {31.1048, 77.1734, 7},
	"Jharkhand":         {23.6102, 85.2799, 7},
	"Karnataka":         {15.3173, 75.7139, 7},
	"Kerala":            {10.8505, 76.2711, 7},
	"Madhya Pradesh":    {22.9734, 78.6569, 6},
	"Maharashtra":       {19.7515, 75.7139, 6},
	"Manipur":           {24.6637, 93.9063, 8},
	"Meghalaya":         {25.4670, 91.3662, 8},
	"Mizoram":           {23.1645, 92.9376, 8},
	"Nagaland":          {26.1584, 94.5624, 8},
	"Odisha":            {20.9517, 85.0985, 7},
	"Punjab":            {31.1471, 75.3412, 7},
	"Rajasthan":         {27.0238, 74.2179, 6},
	"Sikkim":            {27.5330, 88.5122, 9},
	"Tamil Nadu":        {11.1271, 78.6569, 7},
	"Telangana":         {18.1124, 79.0193, 7},
	"Tripura":           {23.9408, 91.9882, 8},
	"Uttar Pradesh":     {26.8467, 80.9462, 6},
	"Uttarakhand":       {30.0668, 79.0193, 7},
	"West Bengal":       {22.9868, 87.8550, 7},
	"Delhi":             {28.7041, 77.1025, 10},
	"Jammu and Kashmir": {34.0837, 74.7973, 7},
	"Ladakh":            {34.1526, 77.5771, 6},
}

// Defaults matching the reference deployment.
const (
	DefaultTileURLTemplate = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"

	// Escalation thresholds. A tile escalates to thermal+detection only when
	// water coverage AND flood-classifier confidence both strictly exceed these.
	WaterCoverageThreshold    = 50.0
	FloodConfidenceThreshold  = 0.6
	PersonConfidenceThreshold = 0.5

	// Model input sizes.
	FloodInputSize = 512
)

// Config carries the runtime settings read from the environment.
type Config struct {
	TileURLTemplate string
	GeodataPath     string
	OutputRoot      string

	SegModelURL    string
	FloodModelURL  string
	DetectModelURL string

	WaterCoverageThreshold    float64
	FloodConfidenceThreshold  float64
	PersonConfidenceThreshold float64

	OutputRetention time.Duration
}

// Load reads config from the environment, falling back to the reference defaults.
func Load() Config {
	cfg := Config{
		TileURLTemplate:           envOr("TILE_URL_TEMPLATE", DefaultTileURLTemplate),
		GeodataPath:               envOr("GEODATA_PATH", "assets/india_map.csv"),
		OutputRoot:                envOr("OUTPUT_DIR", "output"),
		SegModelURL:               os.Getenv("SEG_MODEL_URL"),
		FloodModelURL:             os.Getenv("FLOOD_MODEL_URL"),
		DetectModelURL:            os.Getenv("DETECT_MODEL_URL"),
		WaterCoverageThreshold:    envFloatOr("WATER_COVERAGE_THRESHOLD", WaterCoverageThreshold),
		FloodConfidenceThreshold:  envFloatOr("FLOOD_CONFIDENCE_THRESHOLD", FloodConfidenceThreshold),
		PersonConfidenceThreshold: envFloatOr("PERSON_CONFIDENCE_THRESHOLD", PersonConfidenceThreshold),
		OutputRetention:           24 * time.Hour,
	}

	if h := os.Getenv("OUTPUT_RETENTION_HOURS"); h != "" {
		if v, err := strconv.Atoi(h); err == nil && v > 0 {
			cfg.OutputRetention = time.Duration(v) * time.Hour
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
