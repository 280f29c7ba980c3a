package length

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   int
		wantOK bool
	}{
		{"present", `var ytInitialPlayerResponse = {"videoDetails":{"videoId":"x","lengthSeconds":"930","keywords":[]}}`, 930, true},
		{"first match wins", `"lengthSeconds":"12" ... "lengthSeconds":"99"`, 12, true},
		{"zero is a value", `"lengthSeconds":"0"`, 0, true},
		{"missing", `<html>no details</html>`, 0, false},
		{"unquoted", `"lengthSeconds":930`, 0, false},
		{"overflow", `"lengthSeconds":"99999999999999999999999"`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.page)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	pages := map[string]string{
		"https://www.youtube.com/watch?v=a": `..."lengthSeconds":"930"...`,
		"https://www.youtube.com/watch?v=b": `nothing here`,
	}
	var calls int
	r := NewResolver(fetch.Func(func(_ context.Context, url string) (string, error) {
		calls++
		if p, ok := pages[url]; ok {
			return p, nil
		}
		return "", errors.New("unreachable")
	}), logger.Nop())

	n, ok := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=a")
	assert.True(t, ok)
	assert.Equal(t, 930, n)

	_, ok = r.Resolve(context.Background(), "https://www.youtube.com/watch?v=b")
	assert.False(t, ok, "missing label resolves to absent, not zero")

	_, ok = r.Resolve(context.Background(), "https://www.youtube.com/watch?v=c")
	assert.False(t, ok)

	_, ok = r.Resolve(context.Background(), "")
	assert.False(t, ok)
	assert.Equal(t, 3, calls, "empty URL must not be fetched")
}
