package detection

import (
	"fmt"
	"strings"

	"resgeo/imaging"
	"resgeo/mlmodel"
	"resgeo/types"
)

// Annotation palette: red for persons, purple for everything else.
var (
	personColor = imaging.RGB{R: 255, G: 0, B: 0}
	otherColor  = imaging.RGB{R: 128, G: 0, B: 128}
)

// VictimStage runs the object detector over synthesized thermal imagery.
// Detections below MinConfidence are dropped; all classes are kept.
type VictimStage struct {
	Predictor     mlmodel.Detector
	MinConfidence float64
}

// Detect runs detection on a thermal image and applies the confidence filter.
// An unavailable predictor yields an empty result tagged SourceUnavailable.
func (v *VictimStage) Detect(thermal *imaging.Image) (types.DetectionResult, error) {
	detections, source, err := v.Predictor.Detect(thermal)
	if err != nil {
		return types.DetectionResult{}, fmt.Errorf("victim detection stage: %w", err)
	}

	kept := make([]types.Detection, 0, len(detections))
	for _, d := range detections {
		if d.Confidence >= v.MinConfidence {
			kept = append(kept, d)
		}
	}
	return types.DetectionResult{
		Count:      len(kept),
		Detections: kept,
		Source:     source,
	}, nil
}

// Annotate draws bounding boxes, labels and center markers onto a copy of the
// image. The input's pixel buffer is never touched.
func Annotate(img *imaging.Image, detections []types.Detection) *imaging.Image {
	out := img.Clone()

	for _, d := range detections {
		x1, y1 := int(d.X1), int(d.Y1)
		x2, y2 := int(d.X2), int(d.Y2)

		c := otherColor
		if strings.EqualFold(d.ClassName, "person") {
			c = personColor
		}

		imaging.DrawRect(out, x1, y1, x2, y2, 3, c)

		label := fmt.Sprintf("%s: %.2f", d.ClassName, d.Confidence)
		labelW := imaging.TextWidth(label)
		imaging.FillRect(out, x1, y1-25, x1+labelW+4, y1, imaging.White)
		imaging.DrawText(out, x1+2, y1-23, label, imaging.Black)

		imaging.FillCircle(out, (x1+x2)/2, (y1+y2)/2, 3, c)
	}
	return out
}

// Localize is the single-image victim mode: thermal synthesis straight into
// detection, skipping acquisition and flood gating.
func (v *VictimStage) Localize(img *imaging.Image) (*imaging.Image, *imaging.Image, types.DetectionResult, error) {
	thermal := imaging.Thermal(img)
	result, err := v.Detect(thermal)
	if err != nil {
		return nil, nil, types.DetectionResult{}, err
	}
	annotated := Annotate(thermal, result.Detections)
	return thermal, annotated, result, nil
}
