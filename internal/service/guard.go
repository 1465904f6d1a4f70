package service

import (
	"fmt"

	"housing/internal/model"
)

// DefaultGuardMultiplier is how far past the training maximum an input may go
const DefaultGuardMultiplier = 2.0

// SanityGuard rejects inputs far outside the training range. It catches
// unit and typo errors; it is not a distribution-shift test.
type SanityGuard struct {
	multiplier float64
	fields     []string
}

// NewSanityGuard creates a guard checking the given numeric fields against
// "<field>_max" in the metadata stats.
func NewSanityGuard(multiplier float64, fields []string) (*SanityGuard, error) {
	if multiplier <= 0 {
		return nil, fmt.Errorf("guard multiplier must be positive, got %g", multiplier)
	}
	if len(fields) == 0 {
		fields = []string{"area"}
	}
	return &SanityGuard{
		multiplier: multiplier,
		fields:     append([]string(nil), fields...),
	}, nil
}

// Check passes when stats are absent or carry no bound for a field
func (g *SanityGuard) Check(in model.HouseInput, stats map[string]float64) error {
	if len(stats) == 0 {
		return nil
	}
	values := in.NumericFields()
	for _, field := range g.fields {
		bound, ok := stats[field+"_max"]
		if !ok {
			continue
		}
		v, ok := values[field]
		if !ok {
			continue
		}
		if limit := bound * g.multiplier; v > limit {
			return &model.OutOfDistributionError{Field: field, Value: v, Limit: limit}
		}
	}
	return nil
}
