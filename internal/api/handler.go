// Package api exposes the inactivity query over HTTP for dashboard
// consumption. The surface is read-only: remediation stays behind the
// interactive CLI confirmation gate.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adsweep/internal/domain"
)

// inactivityQuerier is the slice of the hygiene service the handler uses.
type inactivityQuerier interface {
	FindInactive(ctx context.Context, c domain.InactivityCriteria) ([]domain.InactiveUserSummary, error)
}

// Handler serves the JSON API.
type Handler struct {
	svc          inactivityQuerier
	logger       *slog.Logger
	directoryURL string
	startedAt    time.Time
}

// NewHandler builds the API handler.
func NewHandler(svc inactivityQuerier, logger *slog.Logger, directoryURL string) *Handler {
	return &Handler{
		svc:          svc,
		logger:       logger.With("component", "api"),
		directoryURL: directoryURL,
		startedAt:    time.Now(),
	}
}

// Routes mounts the handler's endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Get("/api/v1/inactive-users", h.inactiveUsers)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"directory": h.directoryURL,
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// inactiveUsers runs the inactivity query.
// Query params: days (required), ou (optional DN), mode (standard |
// never-logged-in, default standard).
func (h *Handler) inactiveUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	days, err := strconv.Atoi(q.Get("days"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "days must be an integer")
		return
	}
	mode, err := parseMode(q.Get("mode"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	criteria, err := domain.NewCriteria(days, q.Get("ou"), mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rows, err := h.svc.FindInactive(r.Context(), criteria)
	if err != nil {
		h.logger.Warn("inactivity query failed", "error", err)
		writeDomainError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.InactiveUserSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  rows,
		"count": len(rows),
	})
}

// parseMode maps the query-string mode name to the tagged domain type.
func parseMode(s string) (domain.Mode, error) {
	switch s {
	case "", "standard", "last-logon-before":
		return domain.ModeLastLogonBefore, nil
	case "never-logged-in":
		return domain.ModeNeverLoggedIn, nil
	default:
		return 0, domain.ErrValidation("unknown mode %q: use standard or never-logged-in", s)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
