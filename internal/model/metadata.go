package model

// Target transforms applied to the training label
const (
	TransformLog1p    = "log1p"
	TransformLog      = "log"
	TransformIdentity = "identity"
)

// DefaultCurrency is used when the metadata does not name one
const DefaultCurrency = "USD"

// FurnishPrefix is the column prefix of the one-hot furnishing indicators
const FurnishPrefix = "furnish_"

// ModelMetadata describes the input contract of a trained model.
// It is produced by the training job and never mutated after load.
type ModelMetadata struct {
	Features                  []string           `json:"features"`
	BinaryMapping             map[string]int     `json:"binary_mapping"`
	ExpectedFurnishCategories []string           `json:"expected_furnish_categories"`
	Stats                     map[string]float64 `json:"stats,omitempty"`
	Currency                  string             `json:"currency,omitempty"`
	TargetTransform           string             `json:"target_transform,omitempty"`
	Version                   string             `json:"version,omitempty"`
}

// FeatureVector is the ordered numeric model input, laid out by
// ModelMetadata.Features.
type FeatureVector []float64
