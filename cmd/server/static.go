package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// setupStaticFiles serves the optional frontend from dir. The API keeps
// working when the directory is missing.
func setupStaticFiles(router *gin.Engine, dir string, log *slog.Logger) {
	index := filepath.Join(dir, "index.html")

	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		router.Static("/static", dir)
		log.Info("serving frontend", "dir", dir)
	} else {
		log.Warn("frontend directory not found", "dir", dir)
	}

	router.GET("/", func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Frontend not found at " + index})
			return
		}
		c.File(index)
	})

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
