package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-system/internal/core/ports"
	"github.com/99minutos/catalog-system/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
)

// Dispatcher routes committed product events to a fixed set of workers using
// consistent hashing on the product id, guaranteeing per-product ordering.
type Dispatcher struct {
	workers   []chan ports.ProductEvent
	publisher ports.EventPublisher
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// with a queue of bufferSize events. Non-positive values use the defaults.
func NewDispatcher(numWorkers, bufferSize int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	d := &Dispatcher{
		workers:   make([]chan ports.ProductEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ProductEvent, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. ctx bounds each publish call; the
// workers themselves run until Close drains the queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands event to the worker responsible for its product. It never
// blocks the request path: when that worker's queue is full, or the
// dispatcher is closed, the event is dropped and counted.
func (d *Dispatcher) Enqueue(event ports.ProductEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	idx := d.shardIndex(event.ProductID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, "queue full")
	}
}

// Close stops accepting events and waits until the queued ones are published.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) drop(event ports.ProductEvent, reason string) {
	metrics.EventsDroppedTotal.Inc()
	d.log.Warn().
		Str("type", string(event.Type)).
		Str("product_id", event.ProductID).
		Str("reason", reason).
		Msg("product event dropped")
}

// shardIndex maps a product id deterministically to a worker index.
func (d *Dispatcher) shardIndex(productID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(productID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ProductEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for event := range ch {
		metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("type", string(event.Type)).
				Str("product_id", event.ProductID).
				Int("worker_id", id).
				Msg("product event publish failed")
		}
	}
}
