package pool

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// EventType classifies a Pool lifecycle notification.
type EventType int

const (
	// EventShardRecovered fires when the prober flips a shard back to
	// available.
	EventShardRecovered EventType = iota
	// EventShardUnavailable fires when the prober flips a shard to
	// unavailable.
	EventShardUnavailable
	// EventQuorumRefused fires when the prober would have marked a
	// shard unavailable but the quorum guard refused the transition.
	EventQuorumRefused
)

func (t EventType) String() string {
	switch t {
	case EventShardRecovered:
		return "shard_recovered"
	case EventShardUnavailable:
		return "shard_unavailable"
	case EventQuorumRefused:
		return "quorum_refused"
	default:
		return "unknown"
	}
}

// Event is a Pool lifecycle notification, delivered asynchronously to
// registered Listeners.
type Event struct {
	Type      EventType
	Endpoint  Endpoint
	Timestamp time.Time
}

// Listener receives Pool lifecycle events. It is invoked on a worker
// goroutine, never on the health-prober's own goroutine.
type Listener func(Event)

// notifier fans event delivery out across a small ants worker pool,
// adapted from go_esl/event.EventDispatcher's "map of listeners +
// ants.Pool.Submit per listener" shape, generalized from ESL protocol
// events to Pool lifecycle events.
type notifier struct {
	workers *ants.Pool

	mu        sync.RWMutex
	listeners []Listener
}

func newNotifier(size int) *notifier {
	if size < 1 {
		size = 1
	}
	workers, err := ants.NewPool(size)
	if err != nil {
		workers = nil
	}
	return &notifier{workers: workers}
}

// register adds l to the set of listeners notified on every event.
func (n *notifier) register(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

func (n *notifier) emit(evt Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, l := range n.listeners {
		l := l
		task := func() { l(evt) }
		if n.workers != nil {
			if err := n.workers.Submit(task); err == nil {
				continue
			}
		}
		go task()
	}
}

func (n *notifier) release() {
	if n.workers != nil {
		n.workers.Release()
	}
}
