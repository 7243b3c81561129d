package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Sink consumes events dispatched by a Bus.
type Sink interface {
	Handle(ctx context.Context, e Event) error
}

type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Bus is a bounded in-process queue. Publish never blocks: when the buffer
// is full the event is dropped and logged.
type Bus struct {
	ch     chan Event
	logger *zap.Logger

	mu     sync.RWMutex
	sinks  []Sink
	closed bool
}

func NewBus(buffer int, logger *zap.Logger) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{ch: make(chan Event, buffer), logger: logger}
}

// Subscribe registers a sink. Sinks added after Run starts see later events only.
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.ch <- e:
	default:
		b.logger.Warn("event dropped, buffer full", zap.String("type", e.Type))
	}
}

// Run dispatches events until ctx is done or Close has drained the queue.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-b.ch:
			if !ok {
				return
			}
			b.dispatch(ctx, e)
		}
	}
}

// Close stops accepting events. Queued events are still delivered by Run.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}

func (b *Bus) dispatch(ctx context.Context, e Event) {
	b.mu.RLock()
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.RUnlock()
	for _, s := range sinks {
		if err := safeHandle(ctx, s, e); err != nil {
			b.logger.Warn("event sink failed", zap.String("type", e.Type), zap.Error(err))
		}
	}
}

func safeHandle(ctx context.Context, s Sink, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return s.Handle(ctx, e)
}

// LogSink writes every event to logger.
func LogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(_ context.Context, e Event) error {
		logger.Info("domain event",
			zap.String("type", e.Type),
			zap.Int64("occurred_at_ms", e.OccurredAtMs),
			zap.Any("payload", e.Payload),
		)
		return nil
	})
}
