package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// PredictionResult is the decoded model output
type PredictionResult struct {
	PredictedPrice float64 `json:"predicted_price"`
	Currency       string  `json:"currency"`
	RawScore       float64 `json:"-"` // model output before the inverse target transform
}

// PredictionRecord represents a persisted request/response pair
type PredictionRecord struct {
	ID               int64            `json:"id" db:"id"`
	Area             int              `json:"area" db:"area"`
	Bedrooms         int              `json:"bedrooms" db:"bedrooms"`
	Bathrooms        int              `json:"bathrooms" db:"bathrooms"`
	Stories          int              `json:"stories" db:"stories"`
	MainRoad         string           `json:"mainroad" db:"mainroad"`
	GuestRoom        string           `json:"guestroom" db:"guestroom"`
	Basement         string           `json:"basement" db:"basement"`
	HotWaterHeating  string           `json:"hotwaterheating" db:"hotwaterheating"`
	AirConditioning  string           `json:"airconditioning" db:"airconditioning"`
	Parking          int              `json:"parking" db:"parking"`
	PrefArea         string           `json:"prefarea" db:"prefarea"`
	FurnishingStatus string           `json:"furnishingstatus" db:"furnishingstatus"`
	PredictedPrice   float64          `json:"predicted_price" db:"predicted_price"`
	Currency         string           `json:"currency" db:"currency"`
	Features         *pgvector.Vector `json:"-" db:"features"`
	Distance         *float64         `json:"distance,omitempty" db:"distance"` // set by similarity lookups
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// NewPredictionRecord builds a record from an input, its result and its
// encoded feature vector.
func NewPredictionRecord(in HouseInput, res *PredictionResult, vec FeatureVector) *PredictionRecord {
	features := pgvector.NewVector(vec.Float32())
	return &PredictionRecord{
		Area:             in.Area,
		Bedrooms:         in.Bedrooms,
		Bathrooms:        in.Bathrooms,
		Stories:          in.Stories,
		MainRoad:         string(in.MainRoad),
		GuestRoom:        string(in.GuestRoom),
		Basement:         string(in.Basement),
		HotWaterHeating:  string(in.HotWaterHeating),
		AirConditioning:  string(in.AirConditioning),
		Parking:          in.Parking,
		PrefArea:         string(in.PrefArea),
		FurnishingStatus: string(in.FurnishingStatus),
		PredictedPrice:   res.PredictedPrice,
		Currency:         res.Currency,
		Features:         &features,
	}
}

// Float32 converts the vector for storage in a pgvector column
func (v FeatureVector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// PredictResponse is returned by the predict endpoint
type PredictResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
	Currency       string  `json:"currency"`
	RecordID       *int64  `json:"record_id"`
	Status         string  `json:"status"`
}

// SimilarResponse lists stored predictions closest to a given one
type SimilarResponse struct {
	ID      int64              `json:"id"`
	Results []PredictionRecord `json:"results"`
}

// ErrorResponse is the JSON error payload of the HTTP API
type ErrorResponse struct {
	Error      string           `json:"error"`
	Details    string           `json:"details,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}
