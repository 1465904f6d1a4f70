package service

import (
	"housing/internal/model"
)

// FeatureEncoder turns a house into the model's positional feature vector
type FeatureEncoder struct{}

// NewFeatureEncoder creates a new feature encoder
func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{}
}

// Encode maps the input to named values and projects them onto
// meta.Features. A feature the mapping does not provide is an error,
// never a zero.
func (e *FeatureEncoder) Encode(in model.HouseInput, meta *model.ModelMetadata) (model.FeatureVector, error) {
	named, err := e.namedValues(in, meta)
	if err != nil {
		return nil, err
	}

	vec := make(model.FeatureVector, len(meta.Features))
	for i, name := range meta.Features {
		v, ok := named[name]
		if !ok {
			return nil, &model.MissingFeatureError{Feature: name}
		}
		vec[i] = v
	}
	return vec, nil
}

// namedValues builds the feature-name to value mapping
func (e *FeatureEncoder) namedValues(in model.HouseInput, meta *model.ModelMetadata) (map[string]float64, error) {
	named := in.NumericFields()

	for _, f := range in.BinaryFields() {
		v, ok := meta.BinaryMapping[string(f.Value)]
		if !ok {
			return nil, &model.UnknownCategoryError{Field: f.Name, Value: string(f.Value)}
		}
		named[f.Name] = float64(v)
	}

	status := string(in.FurnishingStatus)
	matched := false
	for _, cat := range meta.ExpectedFurnishCategories {
		v := 0.0
		if cat == status {
			v = 1
			matched = true
		}
		named[model.FurnishPrefix+cat] = v
	}
	if !matched {
		return nil, &model.UnknownCategoryError{Field: "furnishingstatus", Value: status}
	}

	return named, nil
}
