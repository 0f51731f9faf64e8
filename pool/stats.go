package pool

// ShardStats accumulates per-shard counters between two readouts. It is
// protected by the owning Shard's mutex.
type ShardStats struct {
	numGet      int64
	numPut      int64
	numBroken   int64
	numDial     int64
	numDialFail int64
	numEvict    int64
	numClose    int64
}

func (s *ShardStats) reset() {
	*s = ShardStats{}
}

// ShardStatsSnapshot is a point-in-time readout of one shard's counters,
// returned by Pool.SnapshotStats.
type ShardStatsSnapshot struct {
	Server      Endpoint
	Available   bool
	NumActive   int
	NumGet      int64
	NumPut      int64
	NumBroken   int64
	NumDial     int64
	NumDialFail int64
	NumEvict    int64
	NumClose    int64
}
