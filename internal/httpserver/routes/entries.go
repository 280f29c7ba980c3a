package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/handlers"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/mw"
)

func init() { Register(registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	o := d.Orchestrator

	r.Route("/api/entries", func(r chi.Router) {
		r.Get("/", handlers.Entries(d))
		r.Get("/status", handlers.Status(d))

		r.Group(func(r chi.Router) {
			r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))

			r.Post("/opened", handlers.MutatePuzzle(d, "toggle_opened", o.ToggleOpened))
			r.Post("/solved", handlers.MutatePuzzle(d, "toggle_solved", o.ToggleSolved))
			r.Post("/open", handlers.MutatePuzzle(d, "mark_opened", o.MarkOpened))
			r.Post("/toggle-opened-all", handlers.MutateEntry(d, "toggle_all_opened", o.ToggleAllOpened))
			r.Post("/toggle-solved-all", handlers.MutateEntry(d, "toggle_all_solved", o.ToggleAllSolved))
			r.Post("/delete", handlers.MutateEntry(d, "delete", o.Delete))
			r.Post("/restore", handlers.MutateEntry(d, "restore", o.Restore))
		})
	})

	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/open", handlers.Open(d))
}
