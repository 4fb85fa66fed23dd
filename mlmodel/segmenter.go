package mlmodel

import (
	"fmt"
	"net/http"

	"resgeo/imaging"
	"resgeo/types"
)

// Segmenter is the pixel-classification predictor contract.
type Segmenter interface {
	Segment(img *imaging.Image) (*types.ClassMap, types.PredictionSource, error)
}

// RemoteSegmenter calls the segmentation endpoint; with no endpoint configured
// it serves the deterministic mock so the pipeline stays exercisable.
type RemoteSegmenter struct {
	baseURL string
	client  *http.Client
}

func NewSegmenter(baseURL string) *RemoteSegmenter {
	return &RemoteSegmenter{baseURL: baseURL, client: newModelClient()}
}

type segmentResponse struct {
	Width   int   `json:"width"`
	Height  int   `json:"height"`
	Classes []int `json:"classes"`
}

// Segment returns a per-pixel class-id map over the LoveDA label set.
// A failed call on a configured endpoint is an inference error: the caller
// skips the tile rather than silently degrading.
func (s *RemoteSegmenter) Segment(img *imaging.Image) (*types.ClassMap, types.PredictionSource, error) {
	if s.baseURL == "" {
		return mockClassMap(img), types.SourceMock, nil
	}

	var resp segmentResponse
	if err := postImage(s.client, s.baseURL+"/segment", img, &resp); err != nil {
		return nil, types.SourceModel, fmt.Errorf("segmentation inference: %w", err)
	}
	if resp.Width*resp.Height != len(resp.Classes) || len(resp.Classes) == 0 {
		return nil, types.SourceModel, fmt.Errorf("segmentation inference: malformed class map (%dx%d, %d values)",
			resp.Width, resp.Height, len(resp.Classes))
	}

	cm := &types.ClassMap{W: resp.Width, H: resp.Height, ID: make([]uint8, len(resp.Classes))}
	for i, c := range resp.Classes {
		if c < 0 || c >= NumClasses {
			c = 0
		}
		cm.ID[i] = uint8(c)
	}
	return cm, types.SourceModel, nil
}

// mockClassMap labels two fixed rectangles as water on an otherwise background
// map. Deterministic by construction; clearly flagged via SourceMock.
func mockClassMap(img *imaging.Image) *types.ClassMap {
	cm := &types.ClassMap{W: img.W, H: img.H, ID: make([]uint8, img.W*img.H)}
	for i := range cm.ID {
		cm.ID[i] = 1 // background
	}

	regions := [][4]int{
		{50, 150, 100, 200}, // y1, y2, x1, x2
		{180, 220, 50, 120},
	}
	for _, r := range regions {
		for y := r[0]; y < r[1] && y < img.H; y++ {
			for x := r[2]; x < r[3] && x < img.W; x++ {
				cm.ID[y*img.W+x] = WaterClass
			}
		}
	}
	return cm
}
