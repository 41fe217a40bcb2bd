package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Capture log output
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	tests := []struct {
		name  string
		path  string
		level string
	}{
		{"2xx logs info", "/ok", "level=INFO"},
		{"4xx logs warn", "/bad", "level=WARN"},
		{"5xx logs error", "/boom", "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			out := buf.String()
			if !strings.Contains(out, "request completed") {
				t.Error("Expected request completion log")
			}
			if !strings.Contains(out, tt.level) {
				t.Errorf("Expected %s in log, got %s", tt.level, out)
			}
			if !strings.Contains(out, "path="+tt.path) {
				t.Errorf("Expected path in log, got %s", out)
			}
		})
	}
}
