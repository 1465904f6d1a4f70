package service

import (
	"path/filepath"
	"testing"

	"housing/internal/model"

	"github.com/stretchr/testify/require"
)

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func loadTestMetadata(t *testing.T, name string) *model.ModelMetadata {
	t.Helper()
	meta, err := LoadMetadata(testdata(name))
	require.NoError(t, err)
	return meta
}

func loadTestEngine(t *testing.T) *InferenceEngine {
	t.Helper()
	engine, err := LoadInferenceEngine(testdata("house_model.json"))
	require.NoError(t, err)
	return engine
}

// goldenHouse scores 15 + 1.0 + 0.375 + 0.1875 on the fixture model
func goldenHouse() model.HouseInput {
	return model.HouseInput{
		Area:             7420,
		Bedrooms:         4,
		Bathrooms:        2,
		Stories:          3,
		MainRoad:         model.Yes,
		GuestRoom:        model.No,
		Basement:         model.Yes,
		HotWaterHeating:  model.No,
		AirConditioning:  model.Yes,
		Parking:          2,
		PrefArea:         model.Yes,
		FurnishingStatus: model.Furnished,
	}
}

// smallHouse scores 15 + 0.25 - 0.125 + 0.0625 on the fixture model
func smallHouse() model.HouseInput {
	return model.HouseInput{
		Area:             3000,
		Bedrooms:         2,
		Bathrooms:        1,
		Stories:          1,
		MainRoad:         model.Yes,
		GuestRoom:        model.No,
		Basement:         model.No,
		HotWaterHeating:  model.No,
		AirConditioning:  model.No,
		Parking:          0,
		PrefArea:         model.No,
		FurnishingStatus: model.SemiFurnished,
	}
}
