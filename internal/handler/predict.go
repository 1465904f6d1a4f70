package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"housing/internal/metrics"
	"housing/internal/model"

	"github.com/gin-gonic/gin"
)

// Predictor prices houses
type Predictor interface {
	PredictWithFeatures(in model.HouseInput) (*model.PredictionResult, model.FeatureVector, error)
}

// PredictionStore persists request/response pairs
type PredictionStore interface {
	SavePrediction(ctx context.Context, rec *model.PredictionRecord) (int64, error)
	GetPrediction(ctx context.Context, id int64) (*model.PredictionRecord, error)
	FindSimilar(ctx context.Context, features []float32, excludeID int64, limit int) ([]model.PredictionRecord, error)
}

const (
	statusSaved        = "Saved to Database"
	statusNotPersisted = "Not persisted"

	defaultSimilarLimit = 5
	maxSimilarLimit     = 50
)

// PredictHandler handles prediction-related HTTP requests
type PredictHandler struct {
	predictor Predictor
	store     PredictionStore // nil when persistence is disabled
	metrics   *metrics.Metrics
}

// NewPredictHandler creates a new prediction handler. store may be nil.
func NewPredictHandler(predictor Predictor, store PredictionStore, m *metrics.Metrics) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		store:     store,
		metrics:   m,
	}
}

// Predict handles POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req model.HouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.IncOutcome(metrics.OutcomeInvalid)
		if ve := bindViolations(err); ve != nil {
			writePredictError(c, http.StatusUnprocessableEntity, codeInvalidInput, ve)
			return
		}
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   codeInvalidInput,
			Details: "Invalid request: " + err.Error(),
		})
		return
	}
	input, res := req.Input()
	if err := res.Err(); err != nil {
		h.metrics.IncOutcome(metrics.OutcomeInvalid)
		writePredictError(c, http.StatusUnprocessableEntity, codeInvalidInput, err)
		return
	}

	start := time.Now()
	result, features, err := h.predictor.PredictWithFeatures(input)
	took := time.Since(start)
	if err != nil {
		status, code, outcome := classify(err)
		h.metrics.ObservePrediction(outcome, took, 0)
		writePredictError(c, status, code, err)
		return
	}

	logger(c).Debug("prediction",
		"raw_score", result.RawScore,
		"predicted_price", result.PredictedPrice,
		"took_us", took.Microseconds(),
	)

	resp := model.PredictResponse{
		PredictedPrice: result.PredictedPrice,
		Currency:       result.Currency,
		Status:         statusNotPersisted,
	}

	if h.store != nil {
		rec := model.NewPredictionRecord(input, result, features)
		id, err := h.store.SavePrediction(c.Request.Context(), rec)
		if err != nil {
			h.metrics.ObservePrediction(metrics.OutcomePersistFailed, took, 0)
			writePredictError(c, http.StatusInternalServerError, codePersistence, err)
			return
		}
		resp.RecordID = &id
		resp.Status = statusSaved
	}

	h.metrics.ObservePrediction(metrics.OutcomeSuccess, took, result.PredictedPrice)
	c.JSON(http.StatusOK, resp)
}

// GetPrediction handles GET /api/v1/predictions/:id
func (h *PredictHandler) GetPrediction(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Similar handles GET /api/v1/predictions/:id/similar
func (h *PredictHandler) Similar(c *gin.Context) {
	limit := defaultSimilarLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: codeInvalidInput, Details: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxSimilarLimit)
	}

	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	if rec.Features == nil {
		c.JSON(http.StatusOK, model.SimilarResponse{ID: rec.ID, Results: []model.PredictionRecord{}})
		return
	}

	results, err := h.store.FindSimilar(c.Request.Context(), rec.Features.Slice(), rec.ID, limit)
	if err != nil {
		writePredictError(c, http.StatusInternalServerError, codePersistence, err)
		return
	}
	if results == nil {
		results = []model.PredictionRecord{}
	}
	c.JSON(http.StatusOK, model.SimilarResponse{ID: rec.ID, Results: results})
}

// lookup resolves the :id path parameter to a stored record, writing the
// error response itself when it cannot.
func (h *PredictHandler) lookup(c *gin.Context) (*model.PredictionRecord, bool) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: codeNotConfigured, Details: "Prediction history requires DATABASE_URL"})
		return nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: codeInvalidInput, Details: "Invalid prediction ID"})
		return nil, false
	}

	rec, err := h.store.GetPrediction(c.Request.Context(), id)
	if err != nil {
		writePredictError(c, http.StatusInternalServerError, codePersistence, err)
		return nil, false
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: codeNotFound, Details: "Prediction not found"})
		return nil, false
	}
	return rec, true
}
