package pool

import (
	"context"
	"time"
)

// Connection is the capability contract the core requires of its
// collaborators: an endpoint, an Open operation that may fail, and
// mutable slots for pool bookkeeping. The concrete wire protocol is out
// of scope for the core; RedisConn (redisconn.go) is the concrete
// collaborator shipped and exercised by this module.
type Connection interface {
	// Endpoint returns the server this connection talks to.
	Endpoint() Endpoint
	// Open establishes the underlying transport. It may be called at
	// most once per connection.
	Open(ctx context.Context) error
	// Close releases the underlying transport unconditionally.
	Close() error

	// Owner returns the shard that currently owns this connection.
	Owner() *Shard
	// SetOwner records the shard that currently owns this connection.
	SetOwner(s *Shard)

	// Borrowed reports whether the connection is currently held by a
	// caller outside the pool.
	Borrowed() bool
	// SetBorrowed updates the borrowed flag.
	SetBorrowed(v bool)
}

// ConnFactory produces a fresh Connection for endpoint ep, carrying the
// given connect/data timeouts. The core calls it inside Shard.acquire
// and inside the health prober's probe; it never inspects the resulting
// transport.
type ConnFactory func(ep Endpoint, connTimeout, dataTimeout time.Duration) Connection

// connState is embedded by concrete Connection implementations to
// provide the endpoint and the owner/borrowed bookkeeping slots the core
// needs, so each concrete type only has to implement Open/Close.
type connState struct {
	endpoint Endpoint
	owner    *Shard
	borrowed bool
}

func (c *connState) Endpoint() Endpoint { return c.endpoint }
func (c *connState) Owner() *Shard      { return c.owner }
func (c *connState) SetOwner(s *Shard)  { c.owner = s }
func (c *connState) Borrowed() bool     { return c.borrowed }
func (c *connState) SetBorrowed(v bool) { c.borrowed = v }
