package pool

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ApocalypseJiaWei/dpool/internal/logging"
)

// Pool fans out connections across a fixed set of shards, one per
// server endpoint. It routes Acquire round-robin across available
// shards, dispatches Release to the connection's owning shard, and runs
// a background HealthProber that withdraws and restores shards from
// rotation.
type Pool struct {
	shards []*Shard

	cursor uint64 // atomic
	closed uint32 // atomic bool

	numAvailable int // prober-owned only, see HealthProber
	prober       *HealthProber
	notifier     *notifier
}

// New constructs a Pool spanning servers, one shard per endpoint, and
// starts its health-check worker. servers must be non-empty.
func New(servers []Endpoint, cfg PoolConfig, factory ConnFactory) (*Pool, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("dpool: server list must not be empty")
	}
	for _, ep := range servers {
		if err := ep.validate(); err != nil {
			return nil, err
		}
	}

	p := &Pool{
		shards:       make([]*Shard, len(servers)),
		numAvailable: len(servers),
		notifier:     newNotifier(len(servers)),
	}
	for i, ep := range servers {
		p.shards[i] = newShard(ep, cfg, factory)
	}

	p.prober = newHealthProber(p)
	p.prober.start()

	return p, nil
}

// OnEvent registers l to receive Pool lifecycle notifications (shard
// recovered/marked-unavailable/quorum-refused), delivered asynchronously.
func (p *Pool) OnEvent(l Listener) {
	p.notifier.register(l)
}

// Acquire dispatches to an available shard round-robin, retrying up to
// MAX_TRIES=5 shards before failing with ErrAcquireExhausted. Extra
// cursor increments on every skip diffuse concurrent callers away from
// sick shards without a central scheduler.
func (p *Pool) Acquire(ctx context.Context) (Connection, error) {
	if atomic.LoadUint32(&p.closed) == 1 {
		return nil, ErrPoolClosed
	}

	n := uint64(len(p.shards))
	local := atomic.AddUint64(&p.cursor, 1) - 1

	for t := uint64(0); t < maxAcquireTries; t++ {
		idx := (local + t) % n
		shard := p.shards[idx]

		if !shard.isAvailable() {
			atomic.AddUint64(&p.cursor, 1)
			continue
		}

		conn, err := shard.acquire(ctx)
		if conn != nil {
			return conn, nil
		}
		if err != nil {
			logging.With(logrus.Fields{"endpoint": shard.endpoint.String()}).
				WithError(err).Debug("dpool: shard acquire failed, trying next")
		}
		atomic.AddUint64(&p.cursor, 1)
	}

	return nil, ErrAcquireExhausted
}

// Release returns conn to its owning shard. A nil connection or a
// connection with no owner shard is a caller contract violation.
func (p *Pool) Release(conn Connection, broken bool) error {
	if conn == nil {
		return ErrContractViolation
	}
	shard := conn.Owner()
	if shard == nil {
		return ErrContractViolation
	}
	shard.release(conn, broken)
	return nil
}

// Shutdown idempotently stops the health prober and closes every shard,
// so blocked acquires wake deterministically and no further acquire
// succeeds, rather than relying on garbage collection timing to release
// shard resources.
func (p *Pool) Shutdown() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		logging.Get().Warn("dpool: pool already closed")
		return
	}

	p.prober.stop()

	for _, shard := range p.shards {
		shard.close()
	}

	p.notifier.release()
}

// SnapshotStats reads and resets every shard's counters, in shard
// construction order.
func (p *Pool) SnapshotStats() []ShardStatsSnapshot {
	out := make([]ShardStatsSnapshot, len(p.shards))
	for i, shard := range p.shards {
		out[i] = shard.readAndResetStats()
	}
	return out
}
