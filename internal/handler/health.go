package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health endpoint
const ServiceName = "housing-prediction-api"

const pingTimeout = 2 * time.Second

// Pinger checks that a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /health. db may be nil when persistence is disabled.
func Health(metadataVersion string, db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "disabled"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			database = "ok"
			if err := db.Ping(ctx); err != nil {
				database = "unreachable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":           "healthy",
			"service":          ServiceName,
			"metadata_version": metadataVersion,
			"database":         database,
		})
	}
}
