package repository

import (
	"context"
	"os"
	"testing"

	"housing/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
	CREATE EXTENSION IF NOT EXISTS vector;
	CREATE TEMP TABLE predictions (
		id               SERIAL PRIMARY KEY,
		area             INTEGER,
		bedrooms         INTEGER,
		bathrooms        INTEGER,
		stories          INTEGER,
		mainroad         TEXT,
		guestroom        TEXT,
		basement         TEXT,
		hotwaterheating  TEXT,
		airconditioning  TEXT,
		parking          INTEGER,
		prefarea         TEXT,
		furnishingstatus TEXT,
		predicted_price  DOUBLE PRECISION,
		currency         TEXT NOT NULL DEFAULT 'USD',
		features         vector(3),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

// openTestDB connects to TEST_DATABASE_URL, skipping when it is unset.
// A single connection keeps the temp table visible to every query.
func openTestDB(t *testing.T) *PostgresRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return NewPostgresRepositoryFromDB(db)
}

func record(area int, price float64, vec model.FeatureVector) *model.PredictionRecord {
	in := model.HouseInput{
		Area: area, Bedrooms: 3, Bathrooms: 2, Stories: 2,
		MainRoad: model.Yes, GuestRoom: model.No, Basement: model.No,
		HotWaterHeating: model.No, AirConditioning: model.Yes,
		Parking: 1, PrefArea: model.No, FurnishingStatus: model.SemiFurnished,
	}
	return model.NewPredictionRecord(in, &model.PredictionResult{PredictedPrice: price, Currency: "USD"}, vec)
}

func TestNewPostgresRepositoryFromDB(t *testing.T) {
	repo := NewPostgresRepositoryFromDB(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.db)
}

func TestPostgresRepository_SaveAndGet(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	rec := record(7420, 13300000, model.FeatureVector{1, 2, 3})
	id, err := repo.SavePrediction(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := repo.GetPrediction(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7420, got.Area)
	assert.Equal(t, "semi-furnished", got.FurnishingStatus)
	assert.Equal(t, 13300000.0, got.PredictedPrice)
	require.NotNil(t, got.Features)
	assert.Equal(t, []float32{1, 2, 3}, got.Features.Slice())

	missing, err := repo.GetPrediction(ctx, id+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresRepository_FindSimilar(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	base := record(5000, 1, model.FeatureVector{0, 0, 0})
	baseID, err := repo.SavePrediction(ctx, base)
	require.NoError(t, err)
	_, err = repo.SavePrediction(ctx, record(6000, 2, model.FeatureVector{10, 0, 0}))
	require.NoError(t, err)
	nearID, err := repo.SavePrediction(ctx, record(5100, 3, model.FeatureVector{1, 0, 0}))
	require.NoError(t, err)

	got, err := repo.FindSimilar(ctx, []float32{0, 0, 0}, baseID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, nearID, got[0].ID)
	require.NotNil(t, got[0].Distance)
	assert.InDelta(t, 1.0, *got[0].Distance, 1e-9)
}
