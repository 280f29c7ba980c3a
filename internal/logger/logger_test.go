package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", "bogus"} {
		t.Run(lvl, func(t *testing.T) {
			l := New(lvl, false)
			require.NotNil(t, l)
			l.Info("hello", String("k", "v"), Int("n", 1), Bool("b", true), Error(errors.New("x")))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("warn"))
	assert.False(t, ValidLevel("verbose"))
}

func TestWithReturnsUsableChild(t *testing.T) {
	child := Nop().With(Component("test"))
	require.NotNil(t, child)
	child.Debugf("value=%d", 3)
	assert.NoError(t, child.Sync())
}
