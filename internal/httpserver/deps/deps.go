package deps

import (
	"time"

	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/metrics"
	"github.com/JonasKlamroth/ctcscraper/internal/orchestrator"
)

type Deps struct {
	Logger              logger.Logger
	StartTime           time.Time
	Version             string
	Commit              string
	BuildDate           string
	GoVersion           string
	AllowedCIDRS        []string                   // IPs allowed to reach write and ops endpoints
	TrustProxy          bool                       // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RefreshBurst        int                        // manual refreshes allowed back to back per client
	RefreshPerIPPerHour int                        // manual refresh refill rate per client
	Orchestrator        *orchestrator.Orchestrator // owns the entry collection
	Metrics             *metrics.Metrics           // registry served on /metrics
	RefreshTrigger      chan struct{}              // Channel to trigger a manual refresh
}
