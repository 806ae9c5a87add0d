package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/observability"
)

// Fire detection labels.
const (
	LabelFire   = "fire"
	LabelNoFire = "no_fire"
)

// fireArtifact is the on-disk model format: a linear scorer over a
// fixed-length feature vector with a decision threshold.
type fireArtifact struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

// FireModel classifies environmental sensor frames as fire / no fire.
// Implements domain.Classifier.
type FireModel struct {
	weights   []float64
	bias      float64
	threshold float64
}

// LoadFireModel reads the model artifact from path.
func LoadFireModel(path string) (*FireModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: fire model at %s", domain.ErrModelUnavailable, path)
	}

	var art fireArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse fire model %s: %w", path, err)
	}
	if len(art.Weights) == 0 {
		return nil, fmt.Errorf("%w: fire model %s has no weights", domain.ErrModelUnavailable, path)
	}
	if art.Threshold == 0 {
		art.Threshold = 0.5
	}
	return &FireModel{weights: art.Weights, bias: art.Bias, threshold: art.Threshold}, nil
}

// Predict scores the frame and applies the decision threshold.
func (m *FireModel) Predict(features []float64) (string, error) {
	if m == nil || len(m.weights) == 0 {
		observability.PredictionFailures.WithLabelValues("fire").Inc()
		return "", domain.ErrModelUnavailable
	}
	if len(features) != len(m.weights) {
		observability.PredictionFailures.WithLabelValues("fire").Inc()
		return "", fmt.Errorf("%w: got %d features, want %d",
			domain.ErrInvalidInput, len(features), len(m.weights))
	}

	score := m.bias
	for i, w := range m.weights {
		score += w * features[i]
	}
	prob := 1 / (1 + math.Exp(-score))

	observability.Predictions.WithLabelValues("fire").Inc()
	if prob >= m.threshold {
		return LabelFire, nil
	}
	return LabelNoFire, nil
}
