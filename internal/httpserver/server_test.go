package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/metrics"
	"github.com/JonasKlamroth/ctcscraper/internal/orchestrator"
	"github.com/JonasKlamroth/ctcscraper/internal/store"
)

const (
	videoA = "https://www.youtube.com/watch?v=a"
	videoB = "https://www.youtube.com/watch?v=b"
	linkA  = "https://sudokupad.svencodes.com/puzzle/a"
)

func seed() []domain.VideoEntry {
	return []domain.VideoEntry{
		{
			Title: "Alpha", VideoURL: videoA, Published: "2024-02-01T00:00:00",
			Views: "10", Rating: "4.9", VideoLength: 900,
			Puzzles: []domain.Puzzle{{Link: linkA, Name: "A", Author: "X"}},
		},
		{
			Title: "Beta", VideoURL: videoB, Published: "2024-01-01T00:00:00",
			Views: "0", Rating: "0", VideoLength: 4000,
			Puzzles: []domain.Puzzle{{Link: "https://sudokupad.svencodes.com/puzzle/b", MarkedAsSolved: true}},
		},
	}
}

func newTestDeps(t *testing.T, cidrs ...string) deps.Deps {
	t.Helper()
	m := metrics.New()
	o := orchestrator.New(orchestrator.Options{
		Store:   store.NewMemory(seed()...),
		Metrics: m,
		Logger:  logger.Nop(),
	})
	o.Load(context.Background())

	return deps.Deps{
		Logger:              logger.Nop(),
		StartTime:           time.Now(),
		Version:             "test",
		AllowedCIDRS:        cidrs,
		RefreshBurst:        1,
		RefreshPerIPPerHour: 1,
		Orchestrator:        o,
		Metrics:             m,
		RefreshTrigger:      make(chan struct{}, 1),
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type listBody struct {
	Count   int `json:"count"`
	Entries []struct {
		VideoURL  string `json:"videoUrl"`
		AllSolved bool   `json:"allSolved"`
		AnyOpened bool   `json:"anyOpened"`
	} `json:"entries"`
}

func list(t *testing.T, h http.Handler, query string) listBody {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/api/entries"+query, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProbes(t *testing.T) {
	h := NewRouter(newTestDeps(t))

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":true`)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ctcscraper_refresh_duration_seconds")
}

func TestReadyzBeforeLoad(t *testing.T) {
	d := newTestDeps(t)
	d.Orchestrator = orchestrator.New(orchestrator.Options{Store: store.NewMemory(), Logger: logger.Nop()})

	rec := do(t, NewRouter(d), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListEntries(t *testing.T) {
	h := NewRouter(newTestDeps(t))

	body := list(t, h, "")
	require.Equal(t, 2, body.Count)
	assert.Equal(t, videoA, body.Entries[0].VideoURL)
	assert.True(t, body.Entries[1].AllSolved)

	body = list(t, h, "?filter=unsolved")
	require.Equal(t, 1, body.Count)
	assert.Equal(t, videoA, body.Entries[0].VideoURL)

	body = list(t, h, "?sort=length-desc")
	assert.Equal(t, videoB, body.Entries[0].VideoURL)

	body = list(t, h, "?q=beta")
	require.Equal(t, 1, body.Count)

	rec := do(t, h, http.MethodGet, "/api/entries?filter=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	h := NewRouter(newTestDeps(t))

	rec := do(t, h, http.MethodGet, "/api/entries/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var s orchestrator.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, orchestrator.StateIdle, s.State)
	assert.Equal(t, 2, s.Entries.Total)
}

func TestToggleSolvedEndpoint(t *testing.T) {
	d := newTestDeps(t)
	h := NewRouter(d)

	rec := do(t, h, http.MethodPost, "/api/entries/solved", `{"videoUrl":"`+videoA+`","link":"https://sudokupad.app/a"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"changed":true`)

	e, ok := d.Orchestrator.Entry(videoA)
	require.True(t, ok)
	assert.True(t, e.IsAllSolved())
}

func TestMutationErrors(t *testing.T) {
	h := NewRouter(newTestDeps(t))

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad json", "/api/entries/solved", `{`, http.StatusBadRequest},
		{"missing link", "/api/entries/solved", `{"videoUrl":"` + videoA + `"}`, http.StatusBadRequest},
		{"missing video", "/api/entries/delete", `{}`, http.StatusBadRequest},
		{"unknown video", "/api/entries/delete", `{"videoUrl":"nope"}`, http.StatusNotFound},
		{"unknown puzzle", "/api/entries/opened", `{"videoUrl":"` + videoA + `","link":"https://x/zzz"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestDeleteHidesEntry(t *testing.T) {
	h := NewRouter(newTestDeps(t))

	rec := do(t, h, http.MethodPost, "/api/entries/delete", `{"videoUrl":"`+videoB+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, list(t, h, "").Count)
	assert.Equal(t, 2, list(t, h, "?deleted=true").Count)

	rec = do(t, h, http.MethodPost, "/api/entries/restore", `{"videoUrl":"`+videoB+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, list(t, h, "").Count)
}

func TestOpenRedirects(t *testing.T) {
	d := newTestDeps(t)
	h := NewRouter(d)

	rec := do(t, h, http.MethodGet, "/open?video="+url.QueryEscape(videoA)+"&link="+url.QueryEscape("https://sudokupad.app/a"), "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, linkA, rec.Header().Get("Location"))

	e, _ := d.Orchestrator.Entry(videoA)
	assert.True(t, e.IsAllOpened())

	rec = do(t, h, http.MethodGet, "/open?video=nope&link=x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOpenUnknownLinkDoesNotRedirect(t *testing.T) {
	d := newTestDeps(t)
	h := NewRouter(d)

	rec := do(t, h, http.MethodGet, "/open?video="+url.QueryEscape(videoA)+"&link="+url.QueryEscape("https://evil.test/sudokupad.app/a"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestRefreshEndpoint(t *testing.T) {
	d := newTestDeps(t)
	d.RefreshBurst = 5
	h := NewRouter(d)

	rec := do(t, h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "trigger already queued")

	<-d.RefreshTrigger
	rec = do(t, h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRefreshRateLimited(t *testing.T) {
	d := newTestDeps(t)
	h := NewRouter(d)

	rec := do(t, h, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	<-d.RefreshTrigger

	rec = do(t, h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestAllowList(t *testing.T) {
	h := NewRouter(newTestDeps(t, "10.0.0.0/8"))

	// httptest requests come from 192.0.2.1
	rec := do(t, h, http.MethodPost, "/api/entries/delete", `{"videoUrl":"`+videoA+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/entries", "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")
}
