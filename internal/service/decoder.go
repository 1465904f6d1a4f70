package service

import (
	"fmt"
	"math"

	"housing/internal/model"
)

// OutputDecoder inverts the target transform applied at training time.
// It must match the transform recorded alongside the live model.
type OutputDecoder struct {
	transform string
}

// NewOutputDecoder creates a decoder for the given transform. An empty
// transform means log1p, the pairing the training job has always used.
func NewOutputDecoder(transform string) (*OutputDecoder, error) {
	switch transform {
	case "":
		transform = model.TransformLog1p
	case model.TransformLog1p, model.TransformLog, model.TransformIdentity:
	default:
		return nil, fmt.Errorf("%w: unknown target transform %q", model.ErrConfiguration, transform)
	}
	return &OutputDecoder{transform: transform}, nil
}

// Transform returns the transform identity this decoder inverts
func (d *OutputDecoder) Transform() string {
	return d.transform
}

// Decode maps a raw model score back to a price
func (d *OutputDecoder) Decode(raw float64) float64 {
	switch d.transform {
	case model.TransformLog:
		return math.Exp(raw)
	case model.TransformIdentity:
		return raw
	default:
		return math.Expm1(raw)
	}
}

// Forward applies the training-time transform to a price
func (d *OutputDecoder) Forward(price float64) float64 {
	switch d.transform {
	case model.TransformLog:
		return math.Log(price)
	case model.TransformIdentity:
		return price
	default:
		return math.Log1p(price)
	}
}
