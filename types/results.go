package types

// PredictionSource tags whether a stage result came from the real model, the
// deterministic fallback, or whether the predictor was unavailable entirely.
// Callers must never have to guess which one they got.
type PredictionSource string

const (
	SourceModel       PredictionSource = "model"
	SourceMock        PredictionSource = "mock"
	SourceUnavailable PredictionSource = "unavailable"
)

// ClassMap is a per-pixel class-id array over the LoveDA label set.
type ClassMap struct {
	W  int
	H  int
	ID []uint8 // row-major, len == W*H
}

// At returns the class id at (x, y).
func (m *ClassMap) At(x, y int) uint8 { return m.ID[y*m.W+x] }

// SegmentationResult is the per-tile output of the segmentation stage.
// Visualization is stored as an encoded PNG path by the pipeline; here we keep
// only the scalar and the class map so results stay cheap to hold.
type SegmentationResult struct {
	WaterPercentage float64          `json:"water_percentage"`
	Source          PredictionSource `json:"source"`
}

// FloodClassification is the flood-classifier verdict for one tile.
type FloodClassification struct {
	Probability float64          `json:"probability"`
	Triggered   bool             `json:"triggered"`
	Source      PredictionSource `json:"source"`
}

// Detection is one detected object in pixel space. x1<x2, y1<y2 and
// Confidence in [0,1] are maintained by the detection stage.
type Detection struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class"`
	CenterX    float64 `json:"center_x"`
	CenterY    float64 `json:"center_y"`
}

// DetectionResult is the output of the victim detection stage. Count always
// equals len(Detections); a zero Count with SourceUnavailable means the model
// never ran, which is distinct from a genuine empty result.
type DetectionResult struct {
	Count      int              `json:"count"`
	Detections []Detection      `json:"detections"`
	Source     PredictionSource `json:"source"`
}
