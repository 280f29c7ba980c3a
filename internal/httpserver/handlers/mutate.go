package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/orchestrator"
)

type mutationRequest struct {
	VideoURL string `json:"videoUrl"`
	Link     string `json:"link"`
}

type mutationResponse struct {
	Changed bool   `json:"changed"`
	Version uint64 `json:"version"`
}

// PuzzleMutation applies one puzzle-level operation (toggle opened/solved,
// mark opened).
type PuzzleMutation func(ctx context.Context, videoURL, link string) (bool, error)

// EntryMutation applies one entry-level operation (toggle all, delete,
// restore).
type EntryMutation func(ctx context.Context, videoURL string) (bool, error)

// MutatePuzzle serves a puzzle mutation. Body: {"videoUrl": ..., "link": ...}.
func MutatePuzzle(d deps.Deps, op string, fn PuzzleMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeMutation(w, r, d, true)
		if !ok {
			return
		}
		changed, err := fn(r.Context(), req.VideoURL, req.Link)
		respondMutation(w, d, op, req, changed, err)
	}
}

// MutateEntry serves an entry mutation. Body: {"videoUrl": ...}.
func MutateEntry(d deps.Deps, op string, fn EntryMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeMutation(w, r, d, false)
		if !ok {
			return
		}
		changed, err := fn(r.Context(), req.VideoURL)
		respondMutation(w, d, op, req, changed, err)
	}
}

func decodeMutation(w http.ResponseWriter, r *http.Request, d deps.Deps, needLink bool) (mutationRequest, bool) {
	var req mutationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&req); err != nil {
		writeError(w, d.Logger, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	req.Link = strings.TrimSpace(req.Link)

	if req.VideoURL == "" {
		writeError(w, d.Logger, http.StatusBadRequest, "videoUrl is required")
		return req, false
	}
	if needLink && req.Link == "" {
		writeError(w, d.Logger, http.StatusBadRequest, "link is required")
		return req, false
	}
	return req, true
}

func respondMutation(w http.ResponseWriter, d deps.Deps, op string, req mutationRequest, changed bool, err error) {
	switch {
	case errors.Is(err, orchestrator.ErrEntryNotFound), errors.Is(err, orchestrator.ErrPuzzleNotFound):
		writeError(w, d.Logger, http.StatusNotFound, err.Error())
		return
	case err != nil:
		d.Logger.Error("mutation failed", logger.String("op", op), logger.Error(err))
		writeError(w, d.Logger, http.StatusInternalServerError, "mutation failed")
		return
	}

	d.Logger.Debug("mutation applied",
		logger.String("op", op),
		logger.String("video", req.VideoURL),
		logger.Bool("changed", changed))
	writeJSON(w, d.Logger, http.StatusOK, mutationResponse{
		Changed: changed,
		Version: d.Orchestrator.Version(),
	})
}
