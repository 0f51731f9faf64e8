// Command dpool-example drives a dpool.Pool of Redis endpoints, the Go
// analogue of original_source/test/test.cc's hiredis-backed driver, and
// of go_esl/example's demonstration of its single-shard pool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ApocalypseJiaWei/dpool"
	"github.com/ApocalypseJiaWei/dpool/internal/logging"
)

func main() {
	configPath := flag.String("config", "dpool.toml", "path to a TOML pool configuration")
	rounds := flag.Int("rounds", 10, "number of concurrent acquire/release cycles to run")
	flag.Parse()

	logging.Set(logrus.StandardLogger())
	log := logging.Get()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("dpool-example: failed to load config")
	}

	servers := make([]dpool.Endpoint, len(cfg.Servers))
	for i, s := range cfg.Servers {
		servers[i] = dpool.NewEndpoint(s.Host, s.Port)
	}

	poolCfg := dpool.PoolConfig{
		ConnTimeoutMs: cfg.Pool.ConnTimeoutMs,
		DataTimeoutMs: cfg.Pool.DataTimeoutMs,
		MaxIdle:       cfg.Pool.MaxIdle,
		MaxActive:     cfg.Pool.MaxActive,
		MaxFails:      cfg.Pool.MaxFails,
		Wait:          cfg.Pool.Wait,
		MaxWaitMs:     cfg.Pool.MaxWaitMs,
	}

	p, err := dpool.New(servers, poolCfg, dpool.NewRedisConnFactory())
	if err != nil {
		log.WithError(err).Fatal("dpool-example: failed to construct pool")
	}
	defer p.Shutdown()

	p.OnEvent(func(evt dpool.Event) {
		log.WithFields(logrus.Fields{
			"type":     evt.Type.String(),
			"endpoint": evt.Endpoint.String(),
		}).Info("dpool-example: pool event")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Run several acquire/release cycles concurrently, grounded on the
	// pack's use of golang.org/x/sync/errgroup for bounded concurrent
	// fan-out, and fail fast on the first hard error.
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < *rounds; i++ {
		i := i
		g.Go(func() error {
			conn, err := p.Acquire(gctx)
			if err != nil {
				return fmt.Errorf("round %d: acquire failed: %w", i, err)
			}

			redisConn, ok := conn.(*dpool.RedisConn)
			broken := !ok
			if ok {
				if _, err := redisConn.Do("PING"); err != nil {
					broken = true
				}
			}

			return p.Release(conn, broken)
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("dpool-example: acquire/release cycle failed")
	}

	for _, snap := range p.SnapshotStats() {
		fmt.Printf("server=%s available=%v active=%d get=%d put=%d dial=%d dialFail=%d broken=%d evict=%d close=%d\n",
			snap.Server, snap.Available, snap.NumActive, snap.NumGet, snap.NumPut,
			snap.NumDial, snap.NumDialFail, snap.NumBroken, snap.NumEvict, snap.NumClose)
	}

	os.Exit(0)
}
