package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewPoolConfigHonorsExplicitTimeouts(t *testing.T) {
	cfg := NewPoolConfig(250*time.Millisecond, 500*time.Millisecond)
	require.Equal(t, 250, cfg.ConnTimeoutMs)
	require.Equal(t, 500, cfg.DataTimeoutMs)
	// Defaults for everything else untouched by the constructor.
	require.Equal(t, DefaultPoolConfig().MaxIdle, cfg.MaxIdle)
}

func TestPoolConfigOptionsApply(t *testing.T) {
	cfg := NewPoolConfig(100*time.Millisecond, 100*time.Millisecond,
		WithMaxIdle(4),
		WithMaxActive(8),
		WithMaxFails(2),
		WithWait(true, 250*time.Millisecond),
	)

	require.Equal(t, 4, cfg.MaxIdle)
	require.Equal(t, 8, cfg.MaxActive)
	require.Equal(t, 2, cfg.MaxFails)
	require.True(t, cfg.Wait)
	require.Equal(t, 250, cfg.MaxWaitMs)
}

func TestDefaultPoolConfigValues(t *testing.T) {
	cfg := DefaultPoolConfig()
	require.Equal(t, 100, cfg.ConnTimeoutMs)
	require.Equal(t, 100, cfg.DataTimeoutMs)
	require.Equal(t, 10, cfg.MaxIdle)
	require.Equal(t, 100, cfg.MaxActive)
	require.Equal(t, 5, cfg.MaxFails)
	require.False(t, cfg.Wait)
}
