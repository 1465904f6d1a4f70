package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Concrete errors below match their kind with errors.Is.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrValidation        = errors.New("validation error")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrMissingFeature    = errors.New("missing feature")
	ErrFeatureMismatch   = errors.New("feature name mismatch")
	ErrOutOfDistribution = errors.New("input out of distribution")
	ErrModelLoad         = errors.New("model load error")
	ErrPrediction        = errors.New("prediction error")
)

// FieldViolation describes a single failed constraint on an input field
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every constraint the input violated
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnknownCategoryError is returned when a categorical value is not part of
// the metadata's known domain for that field.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for field %s", e.Value, e.Field)
}

func (e *UnknownCategoryError) Is(target error) bool { return target == ErrUnknownCategory }

// MissingFeatureError signals metadata/encoder version skew: a feature the
// model expects was never produced by the encoder.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing feature %q in encoded input", e.Feature)
}

func (e *MissingFeatureError) Is(target error) bool { return target == ErrMissingFeature }

// OutOfDistributionError is returned by the sanity guard for implausible input
type OutOfDistributionError struct {
	Field string
	Value float64
	Limit float64
}

func (e *OutOfDistributionError) Error() string {
	return fmt.Sprintf("%s %g is too large for this model (limit %g)", e.Field, e.Value, e.Limit)
}

func (e *OutOfDistributionError) Is(target error) bool { return target == ErrOutOfDistribution }
