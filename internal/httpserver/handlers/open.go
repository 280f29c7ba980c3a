package handlers

import (
	"errors"
	"net/http"

	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/orchestrator"
)

// Open marks a puzzle as opened and redirects the browser to it.
// Query: ?video=<videoUrl>&link=<puzzle link>.
func Open(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video := r.URL.Query().Get("video")
		link := r.URL.Query().Get("link")
		if video == "" || link == "" {
			writeError(w, d.Logger, http.StatusBadRequest, "video and link are required")
			return
		}

		_, err := d.Orchestrator.MarkOpened(r.Context(), video, link)
		if errors.Is(err, orchestrator.ErrEntryNotFound) || errors.Is(err, orchestrator.ErrPuzzleNotFound) {
			writeError(w, d.Logger, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			d.Logger.Error("mark opened failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "mark opened failed")
			return
		}

		// Redirect target comes from the stored entry only.
		p, err := d.Orchestrator.Puzzle(video, link)
		if err != nil {
			writeError(w, d.Logger, http.StatusNotFound, err.Error())
			return
		}
		target := p.Link
		d.Logger.Info("puzzle opened",
			logger.String("video", video),
			logger.String("link", target))
		http.Redirect(w, r, target, http.StatusFound)
	}
}
