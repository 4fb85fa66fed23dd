package mlmodel

import (
	"fmt"
	"net/http"

	"resgeo/config"
	"resgeo/imaging"
	"resgeo/types"
)

// FloodClassifier is the binary flood-probability predictor contract.
type FloodClassifier interface {
	Classify(img *imaging.Image) (float64, types.PredictionSource, error)
}

// RemoteFloodClassifier calls the flood-classifier endpoint (input resized to
// the model's fixed square resolution); unconfigured, it serves a noise-free
// blue-dominance heuristic as the deterministic mock.
type RemoteFloodClassifier struct {
	baseURL string
	client  *http.Client
}

func NewFloodClassifier(baseURL string) *RemoteFloodClassifier {
	return &RemoteFloodClassifier{baseURL: baseURL, client: newModelClient()}
}

type floodResponse struct {
	Probability float64 `json:"probability"`
}

func (f *RemoteFloodClassifier) Classify(img *imaging.Image) (float64, types.PredictionSource, error) {
	resized := img.Resize(config.FloodInputSize, config.FloodInputSize)

	if f.baseURL == "" {
		return mockFloodProbability(resized), types.SourceMock, nil
	}

	var resp floodResponse
	if err := postImage(f.client, f.baseURL+"/flood", resized, &resp); err != nil {
		return 0, types.SourceModel, fmt.Errorf("flood inference: %w", err)
	}
	if resp.Probability < 0 || resp.Probability > 1 {
		return 0, types.SourceModel, fmt.Errorf("flood inference: probability %v out of range", resp.Probability)
	}
	return resp.Probability, types.SourceModel, nil
}

// mockFloodProbability estimates flooding from the fraction of strongly blue
// pixels, clamped to [0.1, 0.9].
func mockFloodProbability(img *imaging.Image) float64 {
	n := img.W * img.H
	if n == 0 {
		return 0.1
	}
	blue := 0
	for i := 0; i < n; i++ {
		if img.Pix[i*3+2] > 120 {
			blue++
		}
	}
	p := float64(blue) / float64(n) * 1.5
	if p > 0.9 {
		p = 0.9
	}
	if p < 0.1 {
		p = 0.1
	}
	return p
}
