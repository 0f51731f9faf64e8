package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisConn is a Connection implementation backed by
// github.com/gomodule/redigo/redis, the Go analogue of the hiredis
// client the original C++ dpool example (PooledRedisContext in
// original_source/test/test.cc) wrapped.
type RedisConn struct {
	connState

	connTimeout time.Duration
	dataTimeout time.Duration

	rc redis.Conn
}

// NewRedisConnFactory returns a ConnFactory that dials a redis.Conn for
// each shard's endpoint.
func NewRedisConnFactory() ConnFactory {
	return func(ep Endpoint, connTimeout, dataTimeout time.Duration) Connection {
		return &RedisConn{
			connState:   connState{endpoint: ep},
			connTimeout: connTimeout,
			dataTimeout: dataTimeout,
		}
	}
}

// Open dials the redis endpoint with the configured connect/data
// timeouts, mirroring PooledRedisContext::open's
// redisConnectWithTimeout + redisSetTimeout pair.
func (c *RedisConn) Open(ctx context.Context) error {
	rc, err := redis.DialContext(ctx, "tcp", c.endpoint.String(),
		redis.DialConnectTimeout(c.connTimeout),
		redis.DialReadTimeout(c.dataTimeout),
		redis.DialWriteTimeout(c.dataTimeout),
	)
	if err != nil {
		return fmt.Errorf("redis dial failed: %w", err)
	}
	c.rc = rc
	return nil
}

// Close releases the underlying redigo connection unconditionally.
func (c *RedisConn) Close() error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Close()
}

// Do executes a redis command against the borrowed connection. Callers
// must have acquired this connection from the pool first.
func (c *RedisConn) Do(cmd string, args ...interface{}) (interface{}, error) {
	if c.rc == nil {
		return nil, fmt.Errorf("dpool: redis connection not open")
	}
	return c.rc.Do(cmd, args...)
}
