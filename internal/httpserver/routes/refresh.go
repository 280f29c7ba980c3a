package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/handlers"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:              d.RefreshBurst,
			RefillPerIPPerHour: d.RefreshPerIPPerHour,
			TrustProxy:         d.TrustProxy,
		}),
	).Post("/api/refresh", handlers.Refresh(d))
}
