// Package mlmodel talks to the inference sidecar that hosts the three
// pretrained predictors (segmentation, flood classifier, object detector).
// Each handle degrades to a documented deterministic fallback when its
// endpoint is not configured; results always carry their source tag.
package mlmodel

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"resgeo/config"
	"resgeo/imaging"
)

// LoveDA label set served by the segmentation predictor.
var ClassNames = []string{"No Data", "Background", "Building", "Road", "Water", "Barren", "Forest", "Agricultural"}

const (
	NumClasses = 8
	WaterClass = 4
)

var (
	defaultOnce sync.Once
	defaultSeg  *RemoteSegmenter
	defaultFld  *RemoteFloodClassifier
	defaultDet  *RemoteDetector
)

// Default returns the process-wide predictor handles, lazily initialized from
// config on first use and reused afterwards.
func Default() (*RemoteSegmenter, *RemoteFloodClassifier, *RemoteDetector) {
	defaultOnce.Do(func() {
		cfg := config.Load()
		defaultSeg = NewSegmenter(cfg.SegModelURL)
		defaultFld = NewFloodClassifier(cfg.FloodModelURL)
		defaultDet = NewDetector(cfg.DetectModelURL)
	})
	return defaultSeg, defaultFld, defaultDet
}

func newModelClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// postImage sends a PNG-encoded image as JSON and decodes the response into out.
func postImage(client *http.Client, url string, img *imaging.Image, out interface{}) error {
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"image_png": base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model returned status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}
