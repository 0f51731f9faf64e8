package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisConnFactoryWiresEndpointAndBookkeeping(t *testing.T) {
	factory := NewRedisConnFactory()
	ep := NewEndpoint("127.0.0.1", 6379)
	conn := factory(ep, 0, 0)

	require.Equal(t, ep, conn.Endpoint())
	require.False(t, conn.Borrowed())
	require.Nil(t, conn.Owner())

	s := &Shard{}
	conn.SetOwner(s)
	conn.SetBorrowed(true)
	require.Same(t, s, conn.Owner())
	require.True(t, conn.Borrowed())

	rc, ok := conn.(*RedisConn)
	require.True(t, ok)
	_, err := rc.Do("PING")
	require.Error(t, err, "Do before Open must fail, not panic")
}
