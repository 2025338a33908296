package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("allows a configured origin", func(t *testing.T) {
		h := middleware.NewCORS(config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("ignores an unknown origin", func(t *testing.T) {
		h := middleware.NewCORS(config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard disables credentials", func(t *testing.T) {
		h := middleware.NewCORS(config.CORSConfig{AllowedOrigins: []string{"*"}})(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
		req.Header.Set("Origin", "http://anywhere.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}
