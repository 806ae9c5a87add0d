// Package predictor provides the pre-trained classifier collaborators.
// Both models are opaque to the rest of the platform: callers only see
// the domain.Classifier contract. A missing artifact is a configuration
// error (domain.ErrModelUnavailable), propagated and never retried.
package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/observability"
)

// CropFeatureCount is the expected feature vector length:
// N, P, K, temperature, humidity, pH, rainfall.
const CropFeatureCount = 7

// CropOffsetKg maps recommended crops to their approximate annual carbon
// offset in kg CO2e, shown alongside the recommendation.
var CropOffsetKg = map[string]float64{
	"Rice":    4.5,
	"Wheat":   3.8,
	"Corn":    5.2,
	"Soybean": 4.0,
	"Potato":  3.5,
}

// cropArtifact is the on-disk model format: one centroid per class.
type cropArtifact struct {
	Classes []cropClass `json:"classes"`
}

type cropClass struct {
	Label    string    `json:"label"`
	Centroid []float64 `json:"centroid"`
}

// CropModel recommends a crop from soil and climate features.
// Implements domain.Classifier.
type CropModel struct {
	classes []cropClass
}

// LoadCropModel reads the model artifact from path.
func LoadCropModel(path string) (*CropModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: crop model at %s", domain.ErrModelUnavailable, path)
	}

	var art cropArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse crop model %s: %w", path, err)
	}
	if len(art.Classes) == 0 {
		return nil, fmt.Errorf("%w: crop model %s has no classes", domain.ErrModelUnavailable, path)
	}
	for _, c := range art.Classes {
		if len(c.Centroid) != CropFeatureCount {
			return nil, fmt.Errorf("crop model %s: class %q has %d features, want %d",
				path, c.Label, len(c.Centroid), CropFeatureCount)
		}
	}
	return &CropModel{classes: art.Classes}, nil
}

// Predict returns the label of the nearest class centroid.
func (m *CropModel) Predict(features []float64) (string, error) {
	if m == nil || len(m.classes) == 0 {
		observability.PredictionFailures.WithLabelValues("crop").Inc()
		return "", domain.ErrModelUnavailable
	}
	if len(features) != CropFeatureCount {
		observability.PredictionFailures.WithLabelValues("crop").Inc()
		return "", fmt.Errorf("%w: got %d features, want %d",
			domain.ErrInvalidInput, len(features), CropFeatureCount)
	}

	best := m.classes[0]
	bestDist := distance(features, best.Centroid)
	for _, c := range m.classes[1:] {
		if d := distance(features, c.Centroid); d < bestDist {
			best, bestDist = c, d
		}
	}

	observability.Predictions.WithLabelValues("crop").Inc()
	return best.Label, nil
}

func distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
