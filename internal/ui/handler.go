// Package ui renders the report server's HTML page: a query form over the
// inactivity query, with the same result table the CSV/HTML exports use.
package ui

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"adsweep/internal/domain"
)

type inactivityQuerier interface {
	FindInactive(ctx context.Context, c domain.InactivityCriteria) ([]domain.InactiveUserSummary, error)
}

// Handler serves the HTML page.
type Handler struct {
	svc    inactivityQuerier
	logger *slog.Logger
}

// NewHandler builds the UI handler.
func NewHandler(svc inactivityQuerier, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("component", "ui")}
}

// Routes mounts the page on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.index)
}

// index renders the query form, and the result table when the form was
// submitted. Query errors render as an inline notice, never a bare 500.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := pageState{
		Days: q.Get("days"),
		OU:   q.Get("ou"),
		Mode: q.Get("mode"),
	}

	if state.Days != "" {
		days, err := strconv.Atoi(state.Days)
		if err != nil {
			state.Notice = "days must be an integer"
		} else {
			mode := domain.ModeLastLogonBefore
			if state.Mode == "never-logged-in" {
				mode = domain.ModeNeverLoggedIn
			}
			criteria, err := domain.NewCriteria(days, state.OU, mode)
			if err == nil {
				state.Rows, err = h.svc.FindInactive(r.Context(), criteria)
			}
			if err != nil {
				h.logger.Warn("page query failed", "error", err)
				state.Notice = err.Error()
			} else {
				state.Queried = true
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage(state).Render(w); err != nil {
		h.logger.Error("render failed", "error", err)
	}
}
