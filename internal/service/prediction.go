package service

import (
	"fmt"
	"math"

	"housing/internal/model"
)

// PredictionService runs guard, encoder, engine and decoder for one house.
// It holds only read-only state and is safe for concurrent use.
type PredictionService struct {
	meta    *model.ModelMetadata
	guard   *SanityGuard
	encoder *FeatureEncoder
	engine  *InferenceEngine
	decoder *OutputDecoder
}

// NewPredictionService composes the pipeline. It fails if metadata and model
// disagree on the feature contract, so a skewed deploy never serves.
func NewPredictionService(meta *model.ModelMetadata, engine *InferenceEngine, guard *SanityGuard) (*PredictionService, error) {
	if err := engine.CheckContract(meta.Features); err != nil {
		return nil, err
	}
	decoder, err := NewOutputDecoder(meta.TargetTransform)
	if err != nil {
		return nil, err
	}
	if guard == nil {
		guard, err = NewSanityGuard(DefaultGuardMultiplier, nil)
		if err != nil {
			return nil, err
		}
	}
	encoder := NewFeatureEncoder()
	if err := checkEncodable(encoder, meta); err != nil {
		return nil, err
	}
	return &PredictionService{
		meta:    meta,
		guard:   guard,
		encoder: encoder,
		engine:  engine,
		decoder: decoder,
	}, nil
}

// checkEncodable encodes one house per furnishing status and binary value.
// Metadata that cannot encode every valid input is rejected here instead
// of failing requests later.
func checkEncodable(encoder *FeatureEncoder, meta *model.ModelMetadata) error {
	for _, status := range []model.Furnishing{model.Furnished, model.SemiFurnished, model.Unfurnished} {
		for _, b := range []model.Binary{model.Yes, model.No} {
			in := model.HouseInput{
				Area: model.AreaMin + 1, Bedrooms: model.BedroomsMin,
				Bathrooms: model.BathroomsMin, Stories: model.StoriesMin,
				MainRoad: b, GuestRoom: b, Basement: b, HotWaterHeating: b,
				AirConditioning: b, PrefArea: b,
				FurnishingStatus: status,
			}
			if _, err := encoder.Encode(in, meta); err != nil {
				return fmt.Errorf("%w: metadata cannot encode a %s house with %q flags: %w",
					model.ErrConfiguration, status, b, err)
			}
		}
	}
	return nil
}

// Metadata returns the loaded model contract
func (s *PredictionService) Metadata() *model.ModelMetadata {
	return s.meta
}

// Predict prices a single house. Any failing step aborts the call.
func (s *PredictionService) Predict(in model.HouseInput) (*model.PredictionResult, error) {
	res, _, err := s.PredictWithFeatures(in)
	return res, err
}

// PredictWithFeatures is Predict that also returns the encoded vector, so a
// caller can persist it next to the result.
func (s *PredictionService) PredictWithFeatures(in model.HouseInput) (*model.PredictionResult, model.FeatureVector, error) {
	if err := in.Validate().Err(); err != nil {
		return nil, nil, err
	}
	if err := s.guard.Check(in, s.meta.Stats); err != nil {
		return nil, nil, err
	}

	vec, err := s.encoder.Encode(in, s.meta)
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.engine.Predict(vec, s.meta.Features)
	if err != nil {
		return nil, nil, err
	}

	price := s.decoder.Decode(raw)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, nil, fmt.Errorf("%w: raw score %g decodes to invalid price %g", model.ErrPrediction, raw, price)
	}

	return &model.PredictionResult{
		PredictedPrice: price,
		Currency:       s.meta.Currency,
		RawScore:       raw,
	}, vec, nil
}
