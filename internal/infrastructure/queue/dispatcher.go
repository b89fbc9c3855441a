package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/todomessages/todo-api/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Delivery is one push message taken off the transport.
type Delivery struct {
	Channel string
	Payload []byte
}

// PushHandler consumes a push delivery. It returns once the delivery has
// fully settled.
type PushHandler interface {
	Push(ctx context.Context, data []byte) error
}

// Dispatcher routes deliveries to a fixed set of workers using consistent
// hashing on the channel, so deliveries on one channel are handled in the
// order they arrived.
type Dispatcher struct {
	workers []chan Delivery
	handler PushHandler
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler PushHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Delivery, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Delivery, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled or, after
// Close, once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a delivery to the worker owning its channel. It blocks while
// that worker's buffer is full and reports false once the dispatcher is closed.
func (d *Dispatcher) Enqueue(del Delivery) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	idx := d.shardIndex(del.Channel)
	d.workers[idx] <- del
	metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return true
}

// Close stops accepting deliveries and waits for the workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a channel deterministically to a worker index.
func (d *Dispatcher) shardIndex(channel string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channel))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Delivery) {
	defer d.wg.Done()
	depth := metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case del, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := d.handler.Push(ctx, del.Payload); err != nil {
				d.log.Error().Err(err).
					Str("channel", del.Channel).
					Int("worker_id", id).
					Msg("push delivery failed")
			}
		}
	}
}
