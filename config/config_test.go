package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.TileURLTemplate != DefaultTileURLTemplate {
		t.Fatalf("TileURLTemplate = %q", cfg.TileURLTemplate)
	}
	if cfg.OutputRoot != "output" {
		t.Fatalf("OutputRoot = %q", cfg.OutputRoot)
	}
	if cfg.WaterCoverageThreshold != WaterCoverageThreshold {
		t.Fatalf("WaterCoverageThreshold = %v", cfg.WaterCoverageThreshold)
	}
	if cfg.FloodConfidenceThreshold != FloodConfidenceThreshold {
		t.Fatalf("FloodConfidenceThreshold = %v", cfg.FloodConfidenceThreshold)
	}
	if cfg.PersonConfidenceThreshold != PersonConfidenceThreshold {
		t.Fatalf("PersonConfidenceThreshold = %v", cfg.PersonConfidenceThreshold)
	}
	if cfg.OutputRetention != 24*time.Hour {
		t.Fatalf("OutputRetention = %v", cfg.OutputRetention)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TILE_URL_TEMPLATE", "http://localhost:9090/{z}/{y}/{x}")
	t.Setenv("OUTPUT_DIR", "/tmp/resgeo-out")
	t.Setenv("WATER_COVERAGE_THRESHOLD", "35.5")
	t.Setenv("PERSON_CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("OUTPUT_RETENTION_HOURS", "6")
	t.Setenv("SEG_MODEL_URL", "http://localhost:7000")

	cfg := Load()

	if cfg.TileURLTemplate != "http://localhost:9090/{z}/{y}/{x}" {
		t.Fatalf("TileURLTemplate = %q", cfg.TileURLTemplate)
	}
	if cfg.OutputRoot != "/tmp/resgeo-out" {
		t.Fatalf("OutputRoot = %q", cfg.OutputRoot)
	}
	if cfg.WaterCoverageThreshold != 35.5 {
		t.Fatalf("WaterCoverageThreshold = %v", cfg.WaterCoverageThreshold)
	}
	if cfg.PersonConfidenceThreshold != 0.75 {
		t.Fatalf("PersonConfidenceThreshold = %v", cfg.PersonConfidenceThreshold)
	}
	if cfg.OutputRetention != 6*time.Hour {
		t.Fatalf("OutputRetention = %v", cfg.OutputRetention)
	}
	if cfg.SegModelURL != "http://localhost:7000" {
		t.Fatalf("SegModelURL = %q", cfg.SegModelURL)
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("WATER_COVERAGE_THRESHOLD", "not-a-number")
	t.Setenv("OUTPUT_RETENTION_HOURS", "-3")

	cfg := Load()
	if cfg.WaterCoverageThreshold != WaterCoverageThreshold {
		t.Fatalf("bad threshold accepted: %v", cfg.WaterCoverageThreshold)
	}
	if cfg.OutputRetention != 24*time.Hour {
		t.Fatalf("bad retention accepted: %v", cfg.OutputRetention)
	}
}

func TestStatesDataCoversMajorStates(t *testing.T) {
	for _, name := range []string{"Kerala", "Assam", "West Bengal", "Maharashtra"} {
		info, ok := StatesData[name]
		if !ok {
			t.Errorf("StatesData missing %s", name)
			continue
		}
		if info.Lat == 0 || info.Lng == 0 || info.Zoom == 0 {
			t.Errorf("StatesData[%s] incomplete: %+v", name, info)
		}
	}
}
