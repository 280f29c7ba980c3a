package handlers

import (
	"net/http"

	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	State string `json:"state"`
}

// Readyz reports ready once a snapshot has been loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := d.Orchestrator.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, d.Logger, status, readyzResponse{
			Ready: ready,
			State: string(d.Orchestrator.State()),
		})
	}
}
