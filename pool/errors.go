package pool

import (
	"errors"
	"fmt"
)

// Sentinel errors, grounded on go_esl/pool/pool.go's package-level
// errors.New style (ErrPoolClosed, ErrTimeout, ErrInvalid).
var (
	// ErrAcquireExhausted is returned by Pool.Acquire when MAX_TRIES
	// shards were attempted without success.
	ErrAcquireExhausted = errors.New("dpool: exhausted shard retries")

	// ErrContractViolation is returned by Pool.Release when passed a
	// nil connection or a connection with no owner shard.
	ErrContractViolation = errors.New("dpool: nil connection or missing owner on release")

	// ErrShardClosed is returned by Shard.acquire once the shard has
	// been closed.
	ErrShardClosed = errors.New("dpool: shard is closed")

	// ErrPoolClosed is returned by Pool.Acquire once the pool has been
	// shut down.
	ErrPoolClosed = errors.New("dpool: pool is closed")
)

// ConnectError wraps a connection factory failure with the endpoint it
// was dialing, so callers can log with context.
type ConnectError struct {
	Endpoint Endpoint
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("dpool: connect to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}
