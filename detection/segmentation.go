// Package detection runs the multi-stage inference pipeline: segmentation,
// flood gating, thermal synthesis and victim detection, plus the full
// per-region run that drives them over an acquired tile grid.
package detection

import (
	"fmt"

	"resgeo/imaging"
	"resgeo/mlmodel"
	"resgeo/types"
)

// classColors maps the LoveDA class ids to the reference visualization palette.
var classColors = [mlmodel.NumClasses]imaging.RGB{
	{R: 0, G: 0, B: 0},       // no data
	{R: 255, G: 255, B: 255}, // background
	{R: 255, G: 0, B: 0},     // building
	{R: 255, G: 255, B: 0},   // road
	{R: 0, G: 26, B: 255},    // water
	{R: 77, G: 86, B: 99},    // barren
	{R: 4, G: 107, B: 0},     // forest
	{R: 255, G: 123, B: 0},   // agricultural
}

// SegmentationOutput is the full per-tile product of the segmentation stage.
type SegmentationOutput struct {
	Result        types.SegmentationResult
	ClassMap      *types.ClassMap
	Visualization *imaging.Image
}

// SegmentationStage wraps the injected pixel-classification predictor.
type SegmentationStage struct {
	Predictor mlmodel.Segmenter
}

// Segment classifies a tile and derives the water-coverage percentage and the
// color-coded visualization. The source image is never mutated.
func (s *SegmentationStage) Segment(img *imaging.Image) (SegmentationOutput, error) {
	classMap, source, err := s.Predictor.Segment(img)
	if err != nil {
		return SegmentationOutput{}, fmt.Errorf("segmentation stage: %w", err)
	}

	return SegmentationOutput{
		Result: types.SegmentationResult{
			WaterPercentage: WaterPercentage(classMap),
			Source:          source,
		},
		ClassMap:      classMap,
		Visualization: Visualize(classMap),
	}, nil
}

// WaterPercentage is 100 * waterPixels / totalPixels, 0 for an empty map.
func WaterPercentage(cm *types.ClassMap) float64 {
	if cm == nil || len(cm.ID) == 0 {
		return 0
	}
	water := 0
	for _, id := range cm.ID {
		if id == mlmodel.WaterClass {
			water++
		}
	}
	return 100 * float64(water) / float64(len(cm.ID))
}

// Visualize renders a class map as a fresh color-coded image.
func Visualize(cm *types.ClassMap) *imaging.Image {
	out := imaging.New(cm.W, cm.H)
	for y := 0; y < cm.H; y++ {
		for x := 0; x < cm.W; x++ {
			c := classColors[cm.At(x, y)%mlmodel.NumClasses]
			out.SetRGB(x, y, c.R, c.G, c.B)
		}
	}
	return out
}
