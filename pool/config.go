package pool

import "time"

// Design constants, not configurable: cross-shard acquire retries,
// health-probe period/retries/timeouts, and the quorum guard fraction.
const (
	maxAcquireTries = 5
	healthPeriod    = 1 * time.Second
	probeRetries    = 2
	probeTimeoutMs  = 100
	quorumNum       = 2
	quorumDen       = 3
)

// PoolConfig holds the tunables shared by every shard of a Pool.
//
// Unlike the C++ dpool.PoolConfig this constructor honors the timeout
// arguments passed to it instead of silently discarding them.
type PoolConfig struct {
	// ConnTimeoutMs is the connect deadline passed to each connection.
	ConnTimeoutMs int
	// DataTimeoutMs is the data-op deadline passed to each connection.
	DataTimeoutMs int
	// MaxIdle caps the per-shard idle stack; releases beyond it evict
	// the LRU (tail) entry.
	MaxIdle int
	// MaxActive caps per-shard total in-flight connections. Zero means
	// unbounded.
	MaxActive int
	// MaxFails is the number of consecutive failures that renders a
	// shard suspectable to the health prober.
	MaxFails int
	// Wait selects whether an acquire against an exhausted shard blocks
	// (true) or fails fast (false).
	Wait bool
	// MaxWaitMs bounds how long a blocking acquire may wait when Wait
	// is true.
	MaxWaitMs int
}

// DefaultPoolConfig returns the PoolConfig with conservative defaults
// suitable for a small local deployment.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		ConnTimeoutMs: 100,
		DataTimeoutMs: 100,
		MaxIdle:       10,
		MaxActive:     100,
		MaxFails:      5,
		Wait:          false,
		MaxWaitMs:     3,
	}
}

// Option mutates a PoolConfig at construction time. Grounded on the
// go_esl example's functional-option style (fs_esl.WithCommandTimeout).
type Option func(*PoolConfig)

// WithConnTimeout overrides the connect deadline passed to connections.
func WithConnTimeout(d time.Duration) Option {
	return func(c *PoolConfig) { c.ConnTimeoutMs = int(d.Milliseconds()) }
}

// WithDataTimeout overrides the data-op deadline passed to connections.
func WithDataTimeout(d time.Duration) Option {
	return func(c *PoolConfig) { c.DataTimeoutMs = int(d.Milliseconds()) }
}

// WithMaxIdle overrides the per-shard idle-stack cap.
func WithMaxIdle(n int) Option {
	return func(c *PoolConfig) { c.MaxIdle = n }
}

// WithMaxActive overrides the per-shard in-flight cap. Zero means
// unbounded.
func WithMaxActive(n int) Option {
	return func(c *PoolConfig) { c.MaxActive = n }
}

// WithMaxFails overrides the consecutive-failure threshold that renders
// a shard suspectable.
func WithMaxFails(n int) Option {
	return func(c *PoolConfig) { c.MaxFails = n }
}

// WithWait enables (or disables) blocking acquires when a shard's
// capacity is exhausted, bounded by maxWait.
func WithWait(wait bool, maxWait time.Duration) Option {
	return func(c *PoolConfig) {
		c.Wait = wait
		c.MaxWaitMs = int(maxWait.Milliseconds())
	}
}

// NewPoolConfig builds a PoolConfig from explicit timeouts plus any
// number of options, applying every value it is given.
func NewPoolConfig(connTimeout, dataTimeout time.Duration, opts ...Option) PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.ConnTimeoutMs = int(connTimeout.Milliseconds())
	cfg.DataTimeoutMs = int(dataTimeout.Milliseconds())
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
