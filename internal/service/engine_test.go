package service

import (
	"testing"

	"housing/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInferenceEngine(t *testing.T) {
	engine := loadTestEngine(t)
	assert.Equal(t, 14, engine.NumFeature())
	assert.Contains(t, engine.Describe(), "3 trees")

	_, err := LoadInferenceEngine(testdata("missing_model.json"))
	assert.ErrorIs(t, err, model.ErrModelLoad)

	_, err = LoadInferenceEngine(testdata("model_metadata.json"))
	assert.ErrorIs(t, err, model.ErrModelLoad)
}

func TestInferenceEngine_CheckContract(t *testing.T) {
	engine := loadTestEngine(t)

	assert.NoError(t, engine.CheckContract(loadTestMetadata(t, "model_metadata.json").Features))

	err := engine.CheckContract(loadTestMetadata(t, "metadata_reordered.json").Features)
	assert.ErrorIs(t, err, model.ErrConfiguration)

	err = engine.CheckContract([]string{"area"})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestInferenceEngine_Predict(t *testing.T) {
	engine := loadTestEngine(t)
	meta := loadTestMetadata(t, "model_metadata.json")

	vec, err := NewFeatureEncoder().Encode(goldenHouse(), meta)
	require.NoError(t, err)

	raw, err := engine.Predict(vec, meta.Features)
	require.NoError(t, err)
	assert.Equal(t, 16.5625, raw)
}

func TestInferenceEngine_BindsByName(t *testing.T) {
	engine := loadTestEngine(t)
	meta := loadTestMetadata(t, "model_metadata.json")

	vec, err := NewFeatureEncoder().Encode(goldenHouse(), meta)
	require.NoError(t, err)

	// Swap the first two positions in both the vector and the names
	names := append([]string(nil), meta.Features...)
	names[0], names[1] = names[1], names[0]
	swapped := append(model.FeatureVector(nil), vec...)
	swapped[0], swapped[1] = swapped[1], swapped[0]

	raw, err := engine.Predict(swapped, names)
	require.NoError(t, err)
	assert.Equal(t, 16.5625, raw)
}

func TestInferenceEngine_Mismatch(t *testing.T) {
	engine := loadTestEngine(t)
	meta := loadTestMetadata(t, "model_metadata.json")
	vec, err := NewFeatureEncoder().Encode(goldenHouse(), meta)
	require.NoError(t, err)

	t.Run("short vector", func(t *testing.T) {
		_, err := engine.Predict(vec[:13], meta.Features[:13])
		assert.ErrorIs(t, err, model.ErrFeatureMismatch)
	})

	t.Run("length disagrees with names", func(t *testing.T) {
		_, err := engine.Predict(vec[:13], meta.Features)
		assert.ErrorIs(t, err, model.ErrFeatureMismatch)
	})

	t.Run("unknown name", func(t *testing.T) {
		names := append([]string(nil), meta.Features...)
		names[0] = "lot_size"
		_, err := engine.Predict(vec, names)
		assert.ErrorIs(t, err, model.ErrFeatureMismatch)
	})

	t.Run("duplicate name", func(t *testing.T) {
		names := append([]string(nil), meta.Features...)
		names[1] = names[0]
		_, err := engine.Predict(vec, names)
		assert.ErrorIs(t, err, model.ErrFeatureMismatch)
	})
}

func TestInferenceEngine_UnnamedModelAdoptsMetadataNames(t *testing.T) {
	engine, err := LoadInferenceEngine(testdata("house_model_unnamed.json"))
	require.NoError(t, err)
	meta := loadTestMetadata(t, "model_metadata.json")
	require.NoError(t, engine.CheckContract(meta.Features))

	vec, err := NewFeatureEncoder().Encode(goldenHouse(), meta)
	require.NoError(t, err)

	raw, err := engine.Predict(vec, meta.Features)
	require.NoError(t, err)
	assert.Equal(t, 16.5625, raw)

	names := append([]string(nil), meta.Features...)
	names[0], names[1] = names[1], names[0]
	swapped := append(model.FeatureVector(nil), vec...)
	swapped[0], swapped[1] = swapped[1], swapped[0]

	raw, err = engine.Predict(swapped, names)
	require.NoError(t, err)
	assert.Equal(t, 16.5625, raw)

	names[0] = "lot_size"
	_, err = engine.Predict(swapped, names)
	assert.ErrorIs(t, err, model.ErrFeatureMismatch)
}

func TestInferenceEngine_UnnamedModelRejectsDuplicateNames(t *testing.T) {
	engine, err := LoadInferenceEngine(testdata("house_model_unnamed.json"))
	require.NoError(t, err)

	features := append([]string(nil), loadTestMetadata(t, "model_metadata.json").Features...)
	features[1] = features[0]
	assert.ErrorIs(t, engine.CheckContract(features), model.ErrConfiguration)
}
