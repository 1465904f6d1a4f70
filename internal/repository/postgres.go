package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"housing/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const recordColumns = `
	id, area, bedrooms, bathrooms, stories, mainroad, guestroom, basement,
	hotwaterheating, airconditioning, parking, prefarea, furnishingstatus,
	predicted_price, currency, features, created_at`

// PostgresRepository stores prediction request/response pairs
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresRepositoryFromDB(db), nil
}

// NewPostgresRepositoryFromDB wraps an existing connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SavePrediction inserts a record and returns its id
func (r *PostgresRepository) SavePrediction(ctx context.Context, rec *model.PredictionRecord) (int64, error) {
	query := `
		INSERT INTO predictions (
			area, bedrooms, bathrooms, stories, mainroad, guestroom, basement,
			hotwaterheating, airconditioning, parking, prefarea, furnishingstatus,
			predicted_price, currency, features
		) VALUES (
			:area, :bedrooms, :bathrooms, :stories, :mainroad, :guestroom, :basement,
			:hotwaterheating, :airconditioning, :parking, :prefarea, :furnishingstatus,
			:predicted_price, :currency, :features
		)
		RETURNING id, created_at`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var out struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := stmt.GetContext(ctx, &out, rec); err != nil {
		return 0, fmt.Errorf("failed to save prediction: %w", err)
	}

	rec.ID = out.ID
	rec.CreatedAt = out.CreatedAt
	return out.ID, nil
}

// GetPrediction retrieves a record by id, or nil if it does not exist
func (r *PostgresRepository) GetPrediction(ctx context.Context, id int64) (*model.PredictionRecord, error) {
	var rec model.PredictionRecord
	query := `SELECT ` + recordColumns + ` FROM predictions WHERE id = $1`
	err := r.db.GetContext(ctx, &rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &rec, nil
}

// FindSimilar returns stored predictions whose feature vectors are nearest
// to the given one by L2 distance, excluding excludeID.
func (r *PostgresRepository) FindSimilar(ctx context.Context, features []float32, excludeID int64, limit int) ([]model.PredictionRecord, error) {
	query := `
		SELECT ` + recordColumns + `, features <-> $1 AS distance
		FROM predictions
		WHERE id <> $2 AND features IS NOT NULL
		ORDER BY features <-> $1
		LIMIT $3`

	var records []model.PredictionRecord
	err := r.db.SelectContext(ctx, &records, query, pgvector.NewVector(features), excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar predictions: %w", err)
	}
	return records, nil
}
