package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// fakeConn is an in-memory Connection used by the unit and scenario
// tests. It never dials a real socket; its Open always succeeds, and
// fakeFactory decides per endpoint whether it hands out a fakeConn or a
// failingConn instead, à la the pack's several hand-rolled
// pool test doubles (e.g. Stone-afk-connectpool's pool_test.go).
type fakeConn struct {
	connState

	id     int
	opened int32 // atomic bool
	closed int32 // atomic bool
}

func (c *fakeConn) Open(ctx context.Context) error {
	atomic.StoreInt32(&c.opened, 1)
	return nil
}

func (c *fakeConn) Close() error {
	atomic.StoreInt32(&c.closed, 1)
	return nil
}

func (c *fakeConn) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// fakeFactory builds a ConnFactory that fails to open for any endpoint
// in failing (guarded by mu, so tests can flip failure at runtime), and
// otherwise returns a fakeConn with a unique, increasing id.
type fakeFactory struct {
	mu       sync.Mutex
	failing  map[Endpoint]bool
	nextID   int32
	numDials int32
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{failing: make(map[Endpoint]bool)}
}

func (f *fakeFactory) setFailing(ep Endpoint, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[ep] = fail
}

func (f *fakeFactory) isFailing(ep Endpoint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failing[ep]
}

func (f *fakeFactory) factory() ConnFactory {
	return func(ep Endpoint, connTimeout, dataTimeout time.Duration) Connection {
		atomic.AddInt32(&f.numDials, 1)
		id := int(atomic.AddInt32(&f.nextID, 1))
		conn := &fakeConn{connState: connState{endpoint: ep}, id: id}
		if f.isFailing(ep) {
			return &failingConn{fakeConn: conn}
		}
		return conn
	}
}

// failingConn wraps a fakeConn whose Open always errors, simulating a
// connect failure without touching a real transport.
type failingConn struct {
	*fakeConn
}

func (c *failingConn) Open(ctx context.Context) error {
	return fmt.Errorf("fake dial failure to %s", c.endpoint)
}
