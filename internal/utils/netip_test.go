package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "xff ignored without trust", remote: "10.0.0.1:1234", headers: map[string]string{"X-Forwarded-For": "1.2.3.4"}, want: "10.0.0.1"},
		{name: "xff first", remote: "10.0.0.1:1234", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, trustProxy: true, want: "1.2.3.4"},
		{name: "cloudflare wins", remote: "10.0.0.1:1234", headers: map[string]string{"CF-Connecting-IP": "9.9.9.9", "X-Forwarded-For": "1.2.3.4"}, trustProxy: true, want: "9.9.9.9"},
		{name: "real ip", remote: "10.0.0.1:1234", headers: map[string]string{"X-Real-IP": "8.8.8.8"}, trustProxy: true, want: "8.8.8.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.4 ", "garbage", "::1"})

	allowed := []string{"10.1.2.3", "192.168.1.4", "::1", "::ffff:10.0.0.7"}
	for _, ip := range allowed {
		if !m.Allow(ip) {
			t.Errorf("Allow(%q) = false, want true", ip)
		}
	}
	denied := []string{"192.168.1.5", "11.0.0.1", "", "nope"}
	for _, ip := range denied {
		if m.Allow(ip) {
			t.Errorf("Allow(%q) = true, want false", ip)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() || !NewIPMatcher([]string{"garbage"}).IsEmpty() {
		t.Error("matcher without valid rules should be empty")
	}
}
