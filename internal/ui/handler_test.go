package ui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adsweep/internal/domain"
	"adsweep/internal/service/hygiene"
	"adsweep/internal/testutil"
)

func serve(t *testing.T, dir *testutil.MockDirectory, path string) (int, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := hygiene.New(dir, logger, hygiene.WithClock(func() time.Time { return now }))

	r := chi.NewRouter()
	NewHandler(svc, logger).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func TestIndex_RendersForm(t *testing.T) {
	code, body := serve(t, &testutil.MockDirectory{}, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `name="days"`)
	assert.Contains(t, body, "Run query")
	// No query submitted, no result block.
	assert.NotContains(t, body, "matched.")
}

func TestIndex_RunsQuery(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	lastLogon := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dir := &testutil.MockDirectory{Users: []domain.DirectoryUser{
		{SAMAccountName: "pdoe", DisplayName: "Pat Doe", Enabled: true, WhenCreated: &created, LastLogon: &lastLogon},
	}}

	code, body := serve(t, dir, "/?days=90")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "1 account(s) matched.")
	assert.Contains(t, body, "pdoe")
}

func TestIndex_EmptyResultNotice(t *testing.T) {
	code, body := serve(t, &testutil.MockDirectory{}, "/?days=90")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "No inactive accounts matched.")
}

func TestIndex_BadInputRendersNotice(t *testing.T) {
	_, body := serve(t, &testutil.MockDirectory{}, "/?days=abc")
	assert.Contains(t, body, "days must be an integer")

	_, body = serve(t, &testutil.MockDirectory{}, "/?days=0")
	assert.Contains(t, body, "days inactive must be between")
}
