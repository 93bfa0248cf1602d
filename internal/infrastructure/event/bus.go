// Package event is the in-process domain event bus. Handlers run after the
// publishing transaction has committed; a failing handler is logged and
// never reaches the publisher.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/showring/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish after Stop
var ErrBusStopped = errors.New("event bus stopped")

// Mode selects how Publish runs handlers
type Mode int

const (
	// Async runs each handler on its own goroutine; Stop waits for them
	Async Mode = iota
	// Sync runs handlers inline, in registration order
	Sync
)

// BusConfig configures InMemoryEventBus
type BusConfig struct {
	Mode Mode
	// HandlerTimeout bounds a single handler call. Zero means 30s.
	HandlerTimeout time.Duration
	Logger         *zap.Logger
}

// InMemoryEventBus implements shared.EventBus
type InMemoryEventBus struct {
	registry *HandlerRegistry
	mode     Mode
	timeout  time.Duration
	logger   *zap.Logger
	stopped  atomic.Bool
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a bus from cfg
func NewInMemoryEventBus(cfg BusConfig) *InMemoryEventBus {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.HandlerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		mode:     cfg.Mode,
		timeout:  timeout,
		logger:   logger,
	}
}

// Publish hands each event to its handlers. Handlers get a context detached
// from the caller's cancellation so a finished HTTP request does not abort
// an email send.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	base := context.WithoutCancel(ctx)
	for _, ev := range events {
		for _, h := range b.registry.HandlersFor(ev.EventType()) {
			if b.mode == Sync {
				b.dispatch(base, h, ev)
				continue
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.dispatch(base, h, ev)
			}()
		}
	}
	return nil
}

// Subscribe registers handler. Without explicit types the handler's own
// EventTypes are used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus running
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("Event bus started", zap.Int("handlers", b.registry.Len()))
	return nil
}

// Stop rejects new events and waits for in-flight handlers or ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	fields := []zap.Field{
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("handler", fmt.Sprintf("%T", h)),
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked", append(fields, zap.Any("panic", r))...)
		}
	}()
	if err := h.Handle(ctx, ev); err != nil {
		b.logger.Error("Event handler failed", append(fields, zap.Error(err))...)
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
