package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/ApocalypseJiaWei/dpool/internal/logging"
)

// HealthProber runs on a dedicated background loop, scanning shards
// once per second. Suspect or unavailable shards get a fresh
// out-of-pool probe connection; availability flips under the two-thirds
// quorum guard so a correlated outage cannot quarantine the whole
// fleet.
//
// Each tick's probes fan out across a small ants worker pool, the same
// library go_esl's event.Dispatcher already uses to run independent
// callbacks without spinning up one goroutine per callback; the
// resulting per-shard verdicts are folded back into numAvailable
// sequentially, in shard order, so the quorum guard's "before the
// transition" ordering is preserved exactly as in the single-threaded
// C++ original.
type HealthProber struct {
	pool *Pool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	workers *ants.Pool
}

func newHealthProber(p *Pool) *HealthProber {
	ctx, cancel := context.WithCancel(context.Background())

	size := len(p.shards)
	if size < 1 {
		size = 1
	}
	workers, err := ants.NewPool(size)
	if err != nil {
		logging.Get().WithError(err).Warn("dpool: falling back to unbounded probe fan-out")
		workers = nil
	}

	return &HealthProber{
		pool:    p,
		ctx:     ctx,
		cancel:  cancel,
		workers: workers,
	}
}

func (hp *HealthProber) start() {
	hp.wg.Add(1)
	go hp.run()
}

// stop cancels the background loop and blocks until it has actually
// exited, so Pool.Shutdown returns only after the prober is done
// touching shard state.
func (hp *HealthProber) stop() {
	hp.cancel()
	hp.wg.Wait()
	if hp.workers != nil {
		hp.workers.Release()
	}
}

func (hp *HealthProber) run() {
	defer hp.wg.Done()

	ticker := time.NewTicker(healthPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-hp.ctx.Done():
			return
		case <-ticker.C:
			if atomic.LoadUint32(&hp.pool.closed) == 1 {
				return
			}
			hp.tick()
		}
	}
}

type probeResult struct {
	shard   *Shard
	ok      bool
	checked bool
}

func (hp *HealthProber) tick() {
	results := make([]probeResult, len(hp.pool.shards))
	var wg sync.WaitGroup

	for i, shard := range hp.pool.shards {
		if !shard.isSuspectable() && shard.isAvailable() {
			continue
		}

		i, shard := i, shard
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = probeResult{shard: shard, ok: probe(hp.ctx, shard), checked: true}
		}

		if hp.workers != nil {
			if err := hp.workers.Submit(task); err != nil {
				task()
			}
		} else {
			go task()
		}
	}
	wg.Wait()

	for _, r := range results {
		if !r.checked {
			continue
		}
		hp.markAvailable(r.shard, r.ok)
	}
}

// probe dials a throwaway connection to shard's endpoint with fixed
// 100ms timeouts, outside the pool, retrying once on failure. It must
// never mutate shard counters.
func probe(ctx context.Context, shard *Shard) bool {
	timeout := time.Duration(probeTimeoutMs) * time.Millisecond

	for attempt := 0; attempt < probeRetries; attempt++ {
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		conn := shard.factory(shard.endpoint, timeout, timeout)
		err := conn.Open(probeCtx)
		cancel()
		if err == nil {
			conn.Close()
			return true
		}
		logging.With(logrus.Fields{"endpoint": shard.endpoint.String(), "attempt": attempt}).
			WithError(err).Debug("dpool: probe attempt failed")
	}
	return false
}

// markAvailable applies one shard's probe verdict. It runs only on the
// prober's own goroutine (via tick's sequential fold), so
// pool.numAvailable needs no synchronization.
func (hp *HealthProber) markAvailable(shard *Shard, ok bool) {
	log := logging.With(logrus.Fields{"endpoint": shard.endpoint.String()})

	if ok {
		if shard.markAvailable(true) {
			hp.pool.numAvailable++
			log.Info("dpool: server recovered")
			hp.pool.notifier.emit(Event{Type: EventShardRecovered, Endpoint: shard.endpoint, Timestamp: time.Now()})
		}
		return
	}

	n := len(hp.pool.shards)
	if hp.pool.numAvailable*quorumDen > n*quorumNum {
		if shard.markAvailable(false) {
			hp.pool.numAvailable--
			log.Warn("dpool: marking server unavailable")
			hp.pool.notifier.emit(Event{Type: EventShardUnavailable, Endpoint: shard.endpoint, Timestamp: time.Now()})
		}
		return
	}

	log.WithField("numAvailable", hp.pool.numAvailable).
		Warn("dpool: refusing to mark server unavailable, quorum guard engaged")
	hp.pool.notifier.emit(Event{Type: EventQuorumRefused, Endpoint: shard.endpoint, Timestamp: time.Now()})
}
