// Package version carries build metadata, set with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// UserAgent is the default User-Agent for outgoing requests.
func UserAgent() string {
	return fmt.Sprintf("ctcscraper/%s (+https://github.com/JonasKlamroth/CTCScraper)", Version)
}

// String is the one-line summary printed by the version command.
func String() string {
	return fmt.Sprintf("ctcscraper %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
