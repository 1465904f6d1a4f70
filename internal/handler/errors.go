package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"housing/internal/metrics"
	"housing/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error codes returned in the "error" field
const (
	codeInvalidInput  = "invalid_input"
	codeOutOfRange    = "out_of_model_range"
	codeInternal      = "internal_error"
	codePersistence   = "persistence_error"
	codeNotFound      = "not_found"
	codeNotConfigured = "persistence_disabled"
)

// classify maps a core error to an HTTP status, error code and metrics outcome
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity, codeInvalidInput, metrics.OutcomeInvalid
	case errors.Is(err, model.ErrOutOfDistribution):
		return http.StatusUnprocessableEntity, codeOutOfRange, metrics.OutcomeOutOfRange
	default:
		// Unknown categories, missing features and engine failures are
		// metadata/model skew, not caller mistakes.
		return http.StatusInternalServerError, codeInternal, metrics.OutcomeInternalError
	}
}

// writePredictError writes the JSON error payload for a failed prediction
func writePredictError(c *gin.Context, status int, code string, err error) {
	resp := model.ErrorResponse{Error: code, Details: err.Error()}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		resp.Violations = ve.Violations
	}

	if status >= http.StatusInternalServerError {
		logger(c).Error("prediction failed", "error", err)
	} else {
		logger(c).Info("prediction rejected", "code", code, "error", err)
	}
	c.JSON(status, resp)
}

// bindViolations turns binding tag failures into a ValidationError, or
// returns nil when err is not a validation failure. JSON field names are the
// lowercased struct field names.
func bindViolations(err error) *model.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	ve := &model.ValidationError{}
	for _, fe := range verrs {
		msg := model.MissingFieldMessage
		if fe.Tag() != "required" {
			msg = "failed " + fe.Tag() + " check"
		}
		ve.Violations = append(ve.Violations, model.FieldViolation{
			Field:   strings.ToLower(fe.Field()),
			Message: msg,
		})
	}
	return ve
}

// logger returns the request-scoped logger set by RequestLogger
func logger(c *gin.Context) *slog.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if lg, ok := l.(*slog.Logger); ok {
			return lg
		}
	}
	return slog.Default()
}
