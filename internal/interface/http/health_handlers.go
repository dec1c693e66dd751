package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"example.com/shoppingcart/internal/infra/logger"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.ready(ctx); err != nil {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "readiness check failed",
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusServiceUnavailable, errNotReady)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
