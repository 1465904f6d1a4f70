package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHouse() HouseInput {
	return HouseInput{
		Area: 5000, Bedrooms: 3, Bathrooms: 2, Stories: 2,
		MainRoad: Yes, GuestRoom: No, Basement: No, HotWaterHeating: No,
		AirConditioning: Yes, Parking: 1, PrefArea: No,
		FurnishingStatus: Unfurnished,
	}
}

func TestHouseInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*HouseInput)
		wantField string // empty means valid
	}{
		{"valid", func(h *HouseInput) {}, ""},
		{"area at lower bound", func(h *HouseInput) { h.Area = 100 }, "area"},
		{"area just above lower bound", func(h *HouseInput) { h.Area = 101 }, ""},
		{"area at upper bound", func(h *HouseInput) { h.Area = 50000 }, "area"},
		{"area just below upper bound", func(h *HouseInput) { h.Area = 49999 }, ""},
		{"no bedrooms", func(h *HouseInput) { h.Bedrooms = 0 }, "bedrooms"},
		{"eleven bedrooms", func(h *HouseInput) { h.Bedrooms = 11 }, "bedrooms"},
		{"no bathrooms", func(h *HouseInput) { h.Bathrooms = 0 }, "bathrooms"},
		{"five stories", func(h *HouseInput) { h.Stories = 5 }, "stories"},
		{"zero parking", func(h *HouseInput) { h.Parking = 0 }, ""},
		{"negative parking", func(h *HouseInput) { h.Parking = -1 }, "parking"},
		{"bad binary", func(h *HouseInput) { h.PrefArea = "Yes" }, "prefarea"},
		{"empty binary", func(h *HouseInput) { h.MainRoad = "" }, "mainroad"},
		{"bad furnishing", func(h *HouseInput) { h.FurnishingStatus = "luxury" }, "furnishingstatus"},
		{"bathrooms equal bedrooms plus one", func(h *HouseInput) { h.Bedrooms, h.Bathrooms = 2, 3 }, ""},
		{"bathrooms exceed bedrooms plus one", func(h *HouseInput) { h.Bedrooms, h.Bathrooms = 2, 4 }, "bathrooms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHouse()
			tt.mutate(&h)
			res := h.Validate()
			if tt.wantField == "" {
				assert.True(t, res.Valid(), "violations: %v", res.Violations)
				assert.NoError(t, res.Err())
				return
			}
			require.False(t, res.Valid())
			require.Len(t, res.Violations, 1)
			assert.Equal(t, tt.wantField, res.Violations[0].Field)
			assert.ErrorIs(t, res.Err(), ErrValidation)
		})
	}
}

func TestHouseInput_ValidateCollectsAll(t *testing.T) {
	var h HouseInput
	res := h.Validate()

	fields := make(map[string]bool)
	for _, v := range res.Violations {
		fields[v.Field] = true
	}
	for _, f := range []string{"area", "bedrooms", "bathrooms", "stories", "mainroad", "prefarea", "furnishingstatus"} {
		assert.True(t, fields[f], "expected a violation for %s", f)
	}
	assert.False(t, fields["parking"])
}

func TestHouseInput_JSON(t *testing.T) {
	doc := `{"area": 7420, "bedrooms": 4, "bathrooms": 2, "stories": 3, "mainroad": "yes",
		"guestroom": "no", "basement": "yes", "hotwaterheating": "no", "airconditioning": "yes",
		"parking": 2, "prefarea": "yes", "furnishingstatus": "semi-furnished"}`

	var h HouseInput
	require.NoError(t, json.Unmarshal([]byte(doc), &h))
	assert.Equal(t, 7420, h.Area)
	assert.Equal(t, Yes, h.Basement)
	assert.Equal(t, SemiFurnished, h.FurnishingStatus)
	assert.True(t, h.Validate().Valid())
}

func TestHouseRequest_Input(t *testing.T) {
	doc := `{"area": 7420, "bedrooms": 4, "bathrooms": 2, "stories": 3, "mainroad": "yes",
		"guestroom": "no", "basement": "yes", "hotwaterheating": "no", "airconditioning": "yes",
		"parking": 0, "prefarea": "yes", "furnishingstatus": "furnished"}`

	var req HouseRequest
	require.NoError(t, json.Unmarshal([]byte(doc), &req))
	in, res := req.Input()
	require.True(t, res.Valid())
	assert.Equal(t, 7420, in.Area)
	assert.Equal(t, 0, in.Parking)
	assert.Equal(t, Furnished, in.FurnishingStatus)
}

func TestHouseRequest_InputMissingField(t *testing.T) {
	doc := `{"area": 7420, "bedrooms": 4, "bathrooms": 2, "stories": 3, "mainroad": "yes",
		"guestroom": "no", "basement": "yes", "hotwaterheating": "no", "airconditioning": "yes",
		"prefarea": "yes", "furnishingstatus": "furnished"}`

	var req HouseRequest
	require.NoError(t, json.Unmarshal([]byte(doc), &req))
	_, res := req.Input()
	require.Len(t, res.Violations, 1)
	assert.Equal(t, FieldViolation{Field: "parking", Message: MissingFieldMessage}, res.Violations[0])
	assert.ErrorIs(t, res.Err(), ErrValidation)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{&ValidationError{Violations: []FieldViolation{{Field: "area", Message: "too small"}}}, ErrValidation},
		{&UnknownCategoryError{Field: "basement", Value: "maybe"}, ErrUnknownCategory},
		{&MissingFeatureError{Feature: "lot_size"}, ErrMissingFeature},
		{&OutOfDistributionError{Field: "area", Value: 40000, Limit: 32400}, ErrOutOfDistribution},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("predict: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			for _, other := range []error{ErrConfiguration, ErrModelLoad, ErrPrediction} {
				assert.False(t, errors.Is(wrapped, other))
			}
		})
	}

	err := &OutOfDistributionError{Field: "area", Value: 40000, Limit: 32400}
	assert.Equal(t, "area 40000 is too large for this model (limit 32400)", err.Error())
}

func TestNewPredictionRecord(t *testing.T) {
	res := &PredictionResult{PredictedPrice: 4200000, Currency: "USD"}
	rec := NewPredictionRecord(validHouse(), res, FeatureVector{5000, 3, 0.5})

	assert.Equal(t, 5000, rec.Area)
	assert.Equal(t, "yes", rec.MainRoad)
	assert.Equal(t, "unfurnished", rec.FurnishingStatus)
	assert.Equal(t, 4200000.0, rec.PredictedPrice)
	require.NotNil(t, rec.Features)
	assert.Equal(t, []float32{5000, 3, 0.5}, rec.Features.Slice())
}
