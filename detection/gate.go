package detection

import (
	"fmt"

	"resgeo/imaging"
	"resgeo/mlmodel"
	"resgeo/types"
)

// FloodGate decides whether a tile escalates to the expensive thermal and
// detection stages. Both conditions must strictly exceed their thresholds;
// boundary values do not escalate.
type FloodGate struct {
	CoverageThreshold   float64
	ConfidenceThreshold float64
	Classifier          mlmodel.FloodClassifier
}

// ShouldEscalate applies the two-condition gate to already-computed values.
func (g *FloodGate) ShouldEscalate(waterPercentage, floodProbability float64) bool {
	return waterPercentage > g.CoverageThreshold && floodProbability > g.ConfidenceThreshold
}

// Classify runs the flood classifier on a tile and applies the gate using the
// given water coverage.
func (g *FloodGate) Classify(img *imaging.Image, waterPercentage float64) (types.FloodClassification, error) {
	// Cheap first condition: skip classifier inference when coverage alone
	// already fails the gate. The classifier never ran, so no source is
	// attributed.
	if waterPercentage <= g.CoverageThreshold {
		return types.FloodClassification{Probability: 0, Triggered: false}, nil
	}

	probability, source, err := g.Classifier.Classify(img)
	if err != nil {
		return types.FloodClassification{}, fmt.Errorf("flood gate: %w", err)
	}

	return types.FloodClassification{
		Probability: probability,
		Triggered:   g.ShouldEscalate(waterPercentage, probability),
		Source:      source,
	}, nil
}
