package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"adsweep/internal/config"
	"adsweep/internal/service/hygiene"
	"adsweep/internal/testutil"
)

func TestNewRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		RateLimitRPS:       100,
		RateLimitBurst:     200,
		CORSAllowedOrigins: []string{"*"},
	}
	cfg.Directory.URL = "ldaps://dc01.corp.example.com:636"
	svc := hygiene.New(&testutil.MockDirectory{}, logger)

	router := NewRouter(cfg, logger, svc)

	paths := map[string]int{
		"/healthz":                      http.StatusOK,
		"/api/v1/inactive-users?days=5": http.StatusOK,
		"/":                             http.StatusOK,
		"/nope":                         http.StatusNotFound,
	}
	for path, want := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, "path %s", path)
	}

	// Every response carries a request id.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
