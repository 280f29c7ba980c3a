package version

import (
	"strings"
	"testing"
)

func TestUserAgentCarriesVersion(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if ua := UserAgent(); !strings.HasPrefix(ua, "ctcscraper/v1.2.3") {
		t.Errorf("UserAgent() = %q", ua)
	}
	if s := String(); !strings.Contains(s, "v1.2.3") || !strings.Contains(s, GoVersion) {
		t.Errorf("String() = %q", s)
	}
}
