package pool

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ApocalypseJiaWei/dpool/internal/logging"
)

// Shard owns the idle/active connection inventory for a single backend
// endpoint. It coordinates concurrent Acquire/Release with a mutex and
// condition variable, exactly as pool-shard.h does in the original
// dpool: idle is a LIFO stack (most-recently-used at the front), active
// is a bounded counter, and available/fails/closed are readable without
// the lock.
type Shard struct {
	endpoint Endpoint
	config   PoolConfig
	factory  ConnFactory

	mu   sync.Mutex
	cond *sync.Cond

	idle   *list.List // of Connection
	active int
	stats  ShardStats

	fails     uint32 // atomic
	available uint32 // atomic bool: 1 = available
	closed    uint32 // atomic bool: 1 = closed
}

func newShard(ep Endpoint, cfg PoolConfig, factory ConnFactory) *Shard {
	s := &Shard{
		endpoint:  ep,
		config:    cfg,
		factory:   factory,
		idle:      list.New(),
		available: 1,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *Shard) connTimeout() time.Duration {
	return time.Duration(s.config.ConnTimeoutMs) * time.Millisecond
}

func (s *Shard) dataTimeout() time.Duration {
	return time.Duration(s.config.DataTimeoutMs) * time.Millisecond
}

// acquire returns an idle or freshly opened connection, or (nil, err)
// when none is available. A nil connection with any error (including
// nil) tells the caller to try another shard.
func (s *Shard) acquire(ctx context.Context) (Connection, error) {
	start := time.Now()

	s.mu.Lock()
	s.stats.numGet++

	for {
		if elem := s.idle.Front(); elem != nil {
			s.idle.Remove(elem)
			conn := elem.Value.(Connection)
			conn.SetBorrowed(true)
			s.mu.Unlock()
			return conn, nil
		}

		if atomic.LoadUint32(&s.closed) == 1 {
			s.mu.Unlock()
			return nil, ErrShardClosed
		}

		if s.config.MaxActive == 0 || s.active < s.config.MaxActive {
			s.active++
			s.stats.numDial++
			s.mu.Unlock()

			conn := s.factory(s.endpoint, s.connTimeout(), s.dataTimeout())
			err := conn.Open(ctx)
			if err == nil {
				atomic.StoreUint32(&s.fails, 0)
				conn.SetOwner(s)
				conn.SetBorrowed(true)
				return conn, nil
			}

			atomic.AddUint32(&s.fails, 1)
			s.mu.Lock()
			s.active--
			s.stats.numDialFail++
			s.mu.Unlock()
			s.cond.Signal()
			logging.With(logrus.Fields{"endpoint": s.endpoint.String()}).
				WithError(err).Warn("dpool: failed to open connection")
			return nil, &ConnectError{Endpoint: s.endpoint, Err: err}
		}

		if !s.config.Wait {
			s.mu.Unlock()
			return nil, nil
		}

		deadline := start.Add(time.Duration(s.config.MaxWaitMs) * time.Millisecond)
		if !s.waitUntil(ctx, deadline) {
			s.mu.Unlock()
			return nil, context.DeadlineExceeded
		}
		// Woken by a signal before the deadline: loop and re-check.
	}
}

// waitUntil blocks on s.cond (mu must be held by the caller) until
// either signaled, ctx is canceled, or deadline elapses. It returns
// true when the caller should re-check acquire's conditions, false on
// timeout or cancellation.
func (s *Shard) waitUntil(ctx context.Context, deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}

	timer := time.AfterFunc(remaining, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer stop()

	s.cond.Wait()

	if ctx.Err() != nil {
		return false
	}
	return !time.Now().After(deadline)
}

// release returns conn to the shard. A duplicate release (borrowed
// already false) is silently dropped, matching the DoubleRelease
// semantics: a connection can only be returned once.
func (s *Shard) release(conn Connection, broken bool) {
	s.mu.Lock()
	s.stats.numPut++

	if !conn.Borrowed() {
		s.mu.Unlock()
		return
	}
	conn.SetBorrowed(false)

	if broken {
		atomic.AddUint32(&s.fails, 1)
		s.stats.numBroken++
	} else {
		atomic.StoreUint32(&s.fails, 0)
	}

	var victim Connection = conn
	if atomic.LoadUint32(&s.closed) == 0 && !broken {
		s.idle.PushFront(conn)
		if s.idle.Len() > s.config.MaxIdle {
			back := s.idle.Back()
			s.idle.Remove(back)
			victim = back.Value.(Connection)
			s.stats.numEvict++
		} else {
			victim = nil
		}
	}

	if victim == nil {
		s.mu.Unlock()
		s.cond.Signal()
		return
	}

	s.active--
	s.stats.numClose++
	s.mu.Unlock()
	s.cond.Signal()
	victim.Close()
}

// close idempotently closes the shard: new acquires are rejected and
// every idle connection is drained and destroyed, waking one waiter per
// drain step so any blocked acquires observe the closed state.
func (s *Shard) close() {
	if !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return
	}

	s.mu.Lock()
	for {
		elem := s.idle.Front()
		if elem == nil {
			break
		}
		s.idle.Remove(elem)
		conn := elem.Value.(Connection)
		s.active--
		s.stats.numClose++
		s.mu.Unlock()
		s.cond.Signal()
		conn.Close()
		s.mu.Lock()
	}
	s.mu.Unlock()
	s.cond.Broadcast()
}

// isSuspectable reports whether the shard's consecutive-failure count
// has reached MaxFails; the health prober tests it even if still
// available.
func (s *Shard) isSuspectable() bool {
	return atomic.LoadUint32(&s.fails) >= uint32(s.config.MaxFails)
}

func (s *Shard) isAvailable() bool {
	return atomic.LoadUint32(&s.available) == 1
}

// markAvailable atomically transitions the availability flag and
// reports whether the transition actually happened.
func (s *Shard) markAvailable(v bool) bool {
	var from, to uint32
	if v {
		from, to = 0, 1
	} else {
		from, to = 1, 0
	}
	return atomic.CompareAndSwapUint32(&s.available, from, to)
}

// readAndResetStats snapshots the shard's counters and zeroes them in
// place, under the shard lock.
func (s *Shard) readAndResetStats() ShardStatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ShardStatsSnapshot{
		Server:      s.endpoint,
		Available:   s.isAvailable(),
		NumActive:   s.active,
		NumGet:      s.stats.numGet,
		NumPut:      s.stats.numPut,
		NumBroken:   s.stats.numBroken,
		NumDial:     s.stats.numDial,
		NumDialFail: s.stats.numDialFail,
		NumEvict:    s.stats.numEvict,
		NumClose:    s.stats.numClose,
	}
	s.stats.reset()
	return snap
}
