// Package dpool is a sharded client-side connection pool for fan-out to
// N homogeneous backend endpoints. It re-exports the pieces a caller
// needs from the pool subpackage so the common case (build a Pool,
// Acquire, Release, Shutdown) needs only this one import.
//
// Callers who need lower-level pieces (a custom Connection
// implementation, whose Owner/SetOwner methods name the pool.Shard type)
// import github.com/ApocalypseJiaWei/dpool/pool directly.
package dpool

import (
	"time"

	"github.com/ApocalypseJiaWei/dpool/pool"
)

type (
	// Endpoint identifies one backend server by host and port.
	Endpoint = pool.Endpoint
	// Pool fans out connections across a fixed set of shards.
	Pool = pool.Pool
	// PoolConfig holds the tunables shared by every shard of a Pool.
	PoolConfig = pool.PoolConfig
	// Option mutates a PoolConfig at construction time.
	Option = pool.Option
	// Connection is the capability contract the pool requires of its
	// collaborators.
	Connection = pool.Connection
	// ConnFactory produces a fresh Connection for a given endpoint.
	ConnFactory = pool.ConnFactory
	// RedisConn is the shipped Connection implementation backed by
	// github.com/gomodule/redigo/redis.
	RedisConn = pool.RedisConn
	// Event is a Pool lifecycle notification.
	Event = pool.Event
	// EventType classifies a Pool lifecycle notification.
	EventType = pool.EventType
	// Listener receives Pool lifecycle events.
	Listener = pool.Listener
	// ShardStatsSnapshot is a point-in-time readout of one shard's
	// counters.
	ShardStatsSnapshot = pool.ShardStatsSnapshot
	// ConnectError wraps a connection factory failure with the
	// endpoint it was dialing.
	ConnectError = pool.ConnectError
)

// Sentinel errors of the pool package. Pool.Acquire returns
// ErrAcquireExhausted or ErrPoolClosed and Pool.Release returns
// ErrContractViolation; ErrShardClosed comes from a closed shard's own
// acquire and Pool.Acquire reports it as ErrAcquireExhausted.
var (
	ErrAcquireExhausted  = pool.ErrAcquireExhausted
	ErrContractViolation = pool.ErrContractViolation
	ErrShardClosed       = pool.ErrShardClosed
	ErrPoolClosed        = pool.ErrPoolClosed
)

// Lifecycle event types delivered to a registered Listener.
const (
	EventShardRecovered   = pool.EventShardRecovered
	EventShardUnavailable = pool.EventShardUnavailable
	EventQuorumRefused    = pool.EventQuorumRefused
)

// New constructs a Pool spanning servers, one shard per endpoint, and
// starts its background health-check worker. servers must be non-empty.
func New(servers []Endpoint, cfg PoolConfig, factory ConnFactory) (*Pool, error) {
	return pool.New(servers, cfg, factory)
}

// NewEndpoint builds an Endpoint from a host and port.
func NewEndpoint(host string, port int) Endpoint {
	return pool.NewEndpoint(host, port)
}

// DefaultPoolConfig returns the PoolConfig with conservative defaults
// suitable for a small local deployment.
func DefaultPoolConfig() PoolConfig {
	return pool.DefaultPoolConfig()
}

// NewPoolConfig builds a PoolConfig from explicit connect/data timeouts
// plus any number of options.
func NewPoolConfig(connTimeout, dataTimeout time.Duration, opts ...Option) PoolConfig {
	return pool.NewPoolConfig(connTimeout, dataTimeout, opts...)
}

// NewRedisConnFactory returns a ConnFactory that dials a Redis endpoint
// for each shard, via github.com/gomodule/redigo/redis.
func NewRedisConnFactory() ConnFactory {
	return pool.NewRedisConnFactory()
}

// WithConnTimeout overrides the connect deadline passed to connections.
func WithConnTimeout(d time.Duration) Option { return pool.WithConnTimeout(d) }

// WithDataTimeout overrides the data-op deadline passed to connections.
func WithDataTimeout(d time.Duration) Option { return pool.WithDataTimeout(d) }

// WithMaxIdle overrides the per-shard idle-stack cap.
func WithMaxIdle(n int) Option { return pool.WithMaxIdle(n) }

// WithMaxActive overrides the per-shard in-flight cap. Zero means
// unbounded.
func WithMaxActive(n int) Option { return pool.WithMaxActive(n) }

// WithMaxFails overrides the consecutive-failure threshold that renders
// a shard suspectable.
func WithMaxFails(n int) Option { return pool.WithMaxFails(n) }

// WithWait enables (or disables) blocking acquires when a shard's
// capacity is exhausted, bounded by maxWait.
func WithWait(wait bool, maxWait time.Duration) Option { return pool.WithWait(wait, maxWait) }
