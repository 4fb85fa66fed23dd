package mlmodel

import (
	"fmt"
	"net/http"
	"strconv"

	"resgeo/imaging"
	"resgeo/types"
)

// Detector is the object-detection predictor contract. All detected classes
// are retained, not just persons.
type Detector interface {
	Detect(img *imaging.Image) ([]types.Detection, types.PredictionSource, error)
}

// RemoteDetector calls the detection endpoint. With no endpoint configured it
// reports an empty result tagged SourceUnavailable: downstream must be able to
// tell "model never ran" from "zero detections".
type RemoteDetector struct {
	baseURL string
	client  *http.Client
}

func NewDetector(baseURL string) *RemoteDetector {
	return &RemoteDetector{baseURL: baseURL, client: newModelClient()}
}

type detectResponse struct {
	Detections []struct {
		Box        [4]float64 `json:"box"`
		Confidence float64    `json:"confidence"`
		ClassID    int        `json:"class_id"`
	} `json:"detections"`
	Names map[string]string `json:"names"`
}

func (d *RemoteDetector) Detect(img *imaging.Image) ([]types.Detection, types.PredictionSource, error) {
	if d.baseURL == "" {
		return nil, types.SourceUnavailable, nil
	}

	var resp detectResponse
	if err := postImage(d.client, d.baseURL+"/detect", img, &resp); err != nil {
		return nil, types.SourceModel, fmt.Errorf("detection inference: %w", err)
	}

	detections := make([]types.Detection, 0, len(resp.Detections))
	for _, raw := range resp.Detections {
		x1, y1, x2, y2 := raw.Box[0], raw.Box[1], raw.Box[2], raw.Box[3]
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		conf := raw.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}

		name, ok := resp.Names[strconv.Itoa(raw.ClassID)]
		if !ok || name == "" {
			name = "class_" + strconv.Itoa(raw.ClassID)
		}

		detections = append(detections, types.Detection{
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
			Confidence: conf,
			ClassID:    raw.ClassID,
			ClassName:  name,
			CenterX:    (x1 + x2) / 2,
			CenterY:    (y1 + y2) / 2,
		})
	}
	return detections, types.SourceModel, nil
}
