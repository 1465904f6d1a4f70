package service

import (
	"fmt"
	"slices"

	"housing/internal/booster"
	"housing/internal/model"
)

// InferenceEngine wraps a loaded tree ensemble and binds feature names to
// model input positions.
type InferenceEngine struct {
	booster *booster.Booster
	names   []string // model's training feature names, nil if unrecorded
}

// LoadInferenceEngine loads the serialized model once at startup
func LoadInferenceEngine(path string) (*InferenceEngine, error) {
	b, err := booster.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrModelLoad, err)
	}
	return NewInferenceEngine(b), nil
}

// NewInferenceEngine wraps an already loaded booster
func NewInferenceEngine(b *booster.Booster) *InferenceEngine {
	return &InferenceEngine{
		booster: b,
		names:   b.FeatureNames(),
	}
}

// NumFeature returns the model's input width
func (e *InferenceEngine) NumFeature() int {
	return e.booster.NumFeature()
}

// Describe returns a short human-readable summary of the loaded model
func (e *InferenceEngine) Describe() string {
	return fmt.Sprintf("%s, %d trees, %d features, xgboost %s",
		e.booster.Objective(), e.booster.NumTrees(), e.booster.NumFeature(), e.booster.Version())
}

// CheckContract verifies the metadata feature list against the model.
// When the model records feature names they must match in count and
// order. A model without names adopts the metadata list, after which
// Predict binds by those names. Call it before serving.
func (e *InferenceEngine) CheckContract(features []string) error {
	if len(features) != e.booster.NumFeature() {
		return fmt.Errorf("%w: metadata lists %d features, model expects %d",
			model.ErrConfiguration, len(features), e.booster.NumFeature())
	}
	if e.names == nil {
		if i, dup := firstDuplicate(features); dup {
			return fmt.Errorf("%w: metadata lists feature %q twice", model.ErrConfiguration, features[i])
		}
		e.names = append([]string(nil), features...)
		return nil
	}
	for i, name := range e.names {
		if features[i] != name {
			return fmt.Errorf("%w: feature %d is %q in metadata but %q in model",
				model.ErrConfiguration, i, features[i], name)
		}
	}
	return nil
}

// Predict returns the raw score in the model's target space. Values are
// looked up by name, so a vector whose order disagrees with names fails
// loudly or is rebound instead of being silently misread.
func (e *InferenceEngine) Predict(vec model.FeatureVector, names []string) (float64, error) {
	if len(vec) != len(names) {
		return 0, fmt.Errorf("%w: %d values for %d names", model.ErrFeatureMismatch, len(vec), len(names))
	}

	row, err := e.bind(vec, names)
	if err != nil {
		return 0, err
	}

	score, err := e.booster.Predict(row)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.ErrFeatureMismatch, err)
	}
	return score, nil
}

func (e *InferenceEngine) bind(vec model.FeatureVector, names []string) ([]float32, error) {
	row := make([]float32, e.booster.NumFeature())

	if e.names == nil || slices.Equal(e.names, names) {
		// nil only when CheckContract never ran
		if len(vec) != len(row) {
			return nil, fmt.Errorf("%w: got %d features, model expects %d",
				model.ErrFeatureMismatch, len(vec), len(row))
		}
		for i, v := range vec {
			row[i] = float32(v)
		}
		return row, nil
	}

	pos := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := pos[name]; dup {
			return nil, fmt.Errorf("%w: feature %q given twice", model.ErrFeatureMismatch, name)
		}
		pos[name] = i
	}
	if len(pos) != len(row) {
		return nil, fmt.Errorf("%w: got %d features, model expects %d",
			model.ErrFeatureMismatch, len(pos), len(row))
	}
	for i, name := range e.names {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("%w: model feature %q not provided", model.ErrFeatureMismatch, name)
		}
		row[i] = float32(vec[p])
	}
	return row, nil
}

func firstDuplicate(names []string) (int, bool) {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if _, ok := seen[name]; ok {
			return i, true
		}
		seen[name] = struct{}{}
	}
	return 0, false
}
