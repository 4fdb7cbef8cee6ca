package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig tunes delivery.
type ProcessorConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// MaxAttempts is the number of failed publishes before a message is
	// dead-lettered.
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// Retention is how long published messages are kept.
	Retention time.Duration
}

// DefaultProcessorConfig returns the worker defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval: 500 * time.Millisecond,
		BatchSize:    100,
		MaxAttempts:  5,
		BackoffBase:  time.Second,
		BackoffMax:   time.Minute,
		Retention:    7 * 24 * time.Hour,
	}
}

// Observer is told about every delivery outcome.
type Observer interface {
	OutboxDelivered(routingKey string, ok bool)
}

// Stats is a snapshot of processor counters.
type Stats struct {
	Published uint64
	Failed    uint64
	Dead      uint64
	LastError string
	LastRun   time.Time
}

// Processor relays pending outbox messages to a publisher.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	observer  Observer
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	stats Stats
}

// NewProcessor creates a processor. observer may be nil.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, observer Observer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		observer:  observer,
		logger:    logger,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	purge := time.NewTicker(time.Hour)
	defer purge.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return nil
		case <-ticker.C:
			if _, err := p.ProcessOnce(ctx); err != nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		case <-purge.C:
			p.purge(ctx)
		}
	}
}

// Drain processes batches until nothing deliverable is left. Used by the
// CLI to flush events before exiting.
func (p *Processor) Drain(ctx context.Context) error {
	for {
		n, err := p.ProcessOnce(ctx)
		if err != nil || n < p.batchSize() {
			return err
		}
	}
}

// ProcessOnce delivers one batch and returns how many messages it read.
func (p *Processor) ProcessOnce(ctx context.Context) (int, error) {
	now := p.now()
	msgs, err := p.repo.Pending(ctx, now, p.batchSize())
	if err != nil {
		p.record(func(s *Stats) { s.LastError = err.Error() })
		return 0, err
	}
	p.record(func(s *Stats) { s.LastRun = now })

	for _, m := range msgs {
		p.deliver(ctx, m)
	}
	return len(msgs), nil
}

func (p *Processor) deliver(ctx context.Context, m *Message) {
	err := p.publisher.Publish(ctx, m.RoutingKey, m.Payload)
	if p.observer != nil {
		p.observer.OutboxDelivered(m.RoutingKey, err == nil)
	}

	if err == nil {
		if markErr := p.repo.MarkPublished(ctx, m.ID, p.now()); markErr != nil {
			p.logger.Error("marking message published", "id", m.ID, "error", markErr)
			return
		}
		p.record(func(s *Stats) { s.Published++ })
		return
	}

	log := p.logger.With(
		"id", m.ID,
		"event_id", m.EventID,
		"routing_key", m.RoutingKey,
		"correlation_id", m.Metadata.CorrelationID,
		"attempt", m.RetryCount+1,
	)

	if m.RetryCount+1 >= p.config.MaxAttempts {
		log.Error("dead-lettering message", "error", err)
		if markErr := p.repo.MarkDead(ctx, m.ID, err.Error(), p.now()); markErr != nil {
			log.Error("marking message dead", "error", markErr)
		}
		p.record(func(s *Stats) { s.Dead++; s.LastError = err.Error() })
		return
	}

	retryAt := p.now().Add(p.backoff(m.RetryCount + 1))
	log.Warn("publish failed, will retry", "retry_at", retryAt, "error", err)
	if markErr := p.repo.MarkFailed(ctx, m.ID, err.Error(), retryAt); markErr != nil {
		log.Error("marking message failed", "error", markErr)
	}
	p.record(func(s *Stats) { s.Failed++; s.LastError = err.Error() })
}

// backoff doubles from BackoffBase per attempt, capped at BackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	d := p.config.BackoffBase
	if d <= 0 {
		d = time.Second
	}
	limit := p.config.BackoffMax
	if limit <= 0 {
		limit = time.Minute
	}
	for i := 1; i < attempt && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}

func (p *Processor) purge(ctx context.Context) {
	if p.config.Retention <= 0 {
		return
	}
	n, err := p.repo.Purge(ctx, p.now().Add(-p.config.Retention))
	if err != nil {
		p.logger.Warn("purging outbox", "error", err)
		return
	}
	if n > 0 {
		p.logger.Info("purged published outbox messages", "count", n)
	}
}

func (p *Processor) batchSize() int {
	if p.config.BatchSize <= 0 {
		return 100
	}
	return p.config.BatchSize
}

func (p *Processor) record(update func(*Stats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.stats)
}

// Stats returns a copy of the counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
