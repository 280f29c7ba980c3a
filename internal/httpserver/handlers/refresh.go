package handlers

import (
	"net/http"

	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

type refreshResponse struct {
	Queued bool   `json:"queued"`
	State  string `json:"state"`
}

// Refresh queues a manual refresh. A refresh that is already queued or
// running answers 429.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Orchestrator.Refreshing() {
			d.Logger.Warn("refresh already in progress", logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusTooManyRequests, refreshResponse{State: string(d.Orchestrator.State())})
			return
		}

		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Info("manual refresh triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusAccepted, refreshResponse{Queued: true, State: string(d.Orchestrator.State())})
		default:
			d.Logger.Warn("refresh already queued", logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusTooManyRequests, refreshResponse{State: string(d.Orchestrator.State())})
		}
	}
}
