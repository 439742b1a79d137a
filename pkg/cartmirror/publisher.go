package cartmirror

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

// Publisher is the fire-and-forget side of mirroring. Publish must never
// block the caller.
type Publisher interface {
	Publish(lines []model.CartLine)
	Close()
}

// Stats counts what happened to published snapshots
type Stats struct {
	Sent    int64
	Failed  int64
	Dropped int64
}

// NopPublisher discards every snapshot; used when no endpoint is configured
type NopPublisher struct{}

func (NopPublisher) Publish([]model.CartLine) {}
func (NopPublisher) Close()                   {}

// AsyncPublisher queues snapshots and posts them from a single worker, so
// snapshots reach the endpoint in mutation order. A full queue drops the
// newest snapshot.
type AsyncPublisher struct {
	client  *Client
	timeout time.Duration
	queue   chan []byte

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

func NewAsyncPublisher(client *Client, queueSize int, timeout time.Duration) *AsyncPublisher {
	if queueSize < 1 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	p := &AsyncPublisher{
		client:  client,
		timeout: timeout,
		queue:   make(chan []byte, queueSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// New returns a NopPublisher when endpoint is empty
func New(endpoint string, timeout time.Duration, queueSize int) (Publisher, error) {
	if endpoint == "" {
		logger.Info("Cart mirror disabled: no endpoint configured")
		return NopPublisher{}, nil
	}
	client, err := NewClient(endpoint, timeout)
	if err != nil {
		return nil, err
	}
	logger.Info("Cart mirror enabled", map[string]interface{}{
		"endpoint":   endpoint,
		"queue_size": queueSize,
	})
	return NewAsyncPublisher(client, queueSize, timeout), nil
}

func (p *AsyncPublisher) Publish(lines []model.CartLine) {
	if lines == nil {
		lines = []model.CartLine{}
	}
	body, err := json.Marshal(lines)
	if err != nil {
		logger.Error("Failed to encode cart for mirroring", err)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		logger.Warn("Cart mirror publish after close ignored", map[string]interface{}{
			"error": ErrPublisherClosed.Error(),
		})
		return
	}

	select {
	case p.queue <- body:
	default:
		p.dropped.Add(1)
		logger.Warn("Cart mirror queue full, snapshot dropped", map[string]interface{}{
			"lines": len(lines),
		})
	}
}

func (p *AsyncPublisher) run() {
	defer p.wg.Done()
	for body := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.client.Post(ctx, body)
		cancel()

		if err != nil {
			p.failed.Add(1)
			logger.Error("Failed to mirror cart", err, map[string]interface{}{
				"endpoint": p.client.Endpoint(),
				"bytes":    len(body),
			})
			continue
		}
		p.sent.Add(1)
		logger.Debug("Cart mirrored", map[string]interface{}{
			"endpoint": p.client.Endpoint(),
			"bytes":    len(body),
		})
	}
}

// Close stops accepting snapshots and waits for queued ones to be posted
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *AsyncPublisher) Stats() Stats {
	return Stats{
		Sent:    p.sent.Load(),
		Failed:  p.failed.Load(),
		Dropped: p.dropped.Load(),
	}
}
