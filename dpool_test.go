package dpool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRootPackageWiresPoolConfigAndAcquire(t *testing.T) {
	cfg := NewPoolConfig(50*time.Millisecond, 50*time.Millisecond, WithMaxActive(2), WithMaxIdle(2))
	require.Equal(t, 2, cfg.MaxActive)

	servers := []Endpoint{NewEndpoint("127.0.0.1", 16379)}
	p, err := New(servers, cfg, NewRedisConnFactory())
	require.NoError(t, err)
	defer p.Shutdown()

	var recovered []Event
	p.OnEvent(func(e Event) { recovered = append(recovered, e) })

	// No server is actually listening, so acquiring must fail cleanly
	// rather than hang or panic, exercising the re-exported error path.
	_, err = p.Acquire(context.Background())
	require.Error(t, err)

	snaps := p.SnapshotStats()
	require.Len(t, snaps, 1)
	require.Equal(t, servers[0], snaps[0].Server)
}
