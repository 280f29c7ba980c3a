package handlers

import (
	"net/http"
	"strconv"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
)

// entryResponse adds the derived per-entry flags the UI renders.
type entryResponse struct {
	domain.VideoEntry
	AnyOpened bool `json:"anyOpened"`
	AllOpened bool `json:"allOpened"`
	AnySolved bool `json:"anySolved"`
	AllSolved bool `json:"allSolved"`
}

type entriesResponse struct {
	Version uint64          `json:"version"`
	Count   int             `json:"count"`
	Entries []entryResponse `json:"entries"`
}

func toResponse(e domain.VideoEntry) entryResponse {
	return entryResponse{
		VideoEntry: e,
		AnyOpened:  e.IsAnyOpened(),
		AllOpened:  e.IsAllOpened(),
		AnySolved:  e.IsAnySolved(),
		AllSolved:  e.IsAllSolved(),
	}
}

// parseQuery reads filter, sort, q and deleted from the URL.
func parseQuery(r *http.Request) (domain.Query, error) {
	v := r.URL.Query()

	filter, err := domain.ParseFilter(v.Get("filter"))
	if err != nil {
		return domain.Query{}, err
	}
	order, err := domain.ParseSortOrder(v.Get("sort"))
	if err != nil {
		return domain.Query{}, err
	}
	var deleted bool
	if s := v.Get("deleted"); s != "" {
		if deleted, err = strconv.ParseBool(s); err != nil {
			return domain.Query{}, err
		}
	}

	return domain.Query{
		Filter:         filter,
		Sort:           order,
		Search:         v.Get("q"),
		IncludeDeleted: deleted,
	}, nil
}

// Entries lists the collection through the query parameters.
func Entries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		entries := d.Orchestrator.Query(q)
		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toResponse(e))
		}

		writeJSON(w, d.Logger, http.StatusOK, entriesResponse{
			Version: d.Orchestrator.Version(),
			Count:   len(out),
			Entries: out,
		})
	}
}

// Status reports the orchestrator state and collection counters.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, d.Orchestrator.Status())
	}
}
