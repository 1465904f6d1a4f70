package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"housing/internal/model"
)

// LoadMetadata reads the model metadata artifact written by the training job
func LoadMetadata(path string) (*model.ModelMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read metadata %s: %w", model.ErrConfiguration, path, err)
	}
	return ParseMetadata(data)
}

// ParseMetadata decodes and checks a metadata document
func ParseMetadata(data []byte) (*model.ModelMetadata, error) {
	// Decode into raw fields first so absent keys can be told apart from
	// empty ones.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed metadata: %w", model.ErrConfiguration, err)
	}
	for _, key := range []string{"features", "binary_mapping", "expected_furnish_categories"} {
		if v, ok := raw[key]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: metadata is missing %q", model.ErrConfiguration, key)
		}
	}

	var meta model.ModelMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: malformed metadata: %w", model.ErrConfiguration, err)
	}
	if err := checkMetadata(&meta); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}

	if meta.Currency == "" {
		meta.Currency = model.DefaultCurrency
	}
	if meta.TargetTransform == "" {
		meta.TargetTransform = model.TransformLog1p
	}
	return &meta, nil
}

func checkMetadata(meta *model.ModelMetadata) error {
	if len(meta.Features) == 0 {
		return errors.New("metadata lists no features")
	}
	seen := make(map[string]bool, len(meta.Features))
	for i, f := range meta.Features {
		if f == "" {
			return fmt.Errorf("feature %d has an empty name", i)
		}
		if seen[f] {
			return fmt.Errorf("feature %q is listed twice", f)
		}
		seen[f] = true
	}

	if len(meta.BinaryMapping) == 0 {
		return errors.New("binary_mapping is empty")
	}
	if len(meta.ExpectedFurnishCategories) == 0 {
		return errors.New("expected_furnish_categories is empty")
	}

	switch meta.TargetTransform {
	case "", model.TransformLog1p, model.TransformLog, model.TransformIdentity:
	default:
		return fmt.Errorf("unknown target_transform %q", meta.TargetTransform)
	}
	return nil
}
