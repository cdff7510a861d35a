package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/storelane/inventory/internal/core/domain"
	"github.com/storelane/inventory/internal/metrics"
	"github.com/storelane/inventory/internal/port"
)

// StatusFor derives the stock status from the current quantity and the
// per-product threshold.
func StatusFor(quantity, threshold int) domain.StockStatus {
	switch {
	case quantity == 0:
		return domain.StatusOutOfStock
	case quantity <= threshold:
		return domain.StatusLowStock
	default:
		return domain.StatusInStock
	}
}

// AlertService re-derives stock status after each committed write and emits
// an AlertEvent only on a transition, so stock sitting in the low band does
// not re-alert on every unit sold. Emitted events go onto a buffered queue
// drained by publisher workers; publishing is decoupled from the write path.
type AlertService struct {
	statuses port.StatusStore
	queue    chan domain.AlertEvent
	logger   zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewAlertService(statuses port.StatusStore, logger zerolog.Logger, queueSize int) *AlertService {
	return &AlertService{
		statuses: statuses,
		queue:    make(chan domain.AlertEvent, queueSize),
		logger:   logger,
	}
}

// Reevaluate computes the status for the new quantity and, if it differs
// from the last known one (a first observation counts as a transition),
// queues an AlertEvent. The returned event is nil when nothing was emitted.
func (s *AlertService) Reevaluate(ctx context.Context, productID string, quantity, threshold int) (*domain.AlertEvent, error) {
	status := StatusFor(quantity, threshold)

	previous, changed, err := s.statuses.Swap(ctx, productID, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	event := domain.AlertEvent{
		ProductID:      productID,
		PreviousStatus: previous,
		NewStatus:      status,
		Quantity:       quantity,
		At:             time.Now().UTC(),
	}

	s.enqueue(event)

	s.logger.Info().
		Str("product_id", productID).
		Str("previous_status", string(previous)).
		Str("new_status", string(status)).
		Int("quantity", quantity).
		Msg("stock status transition")

	return &event, nil
}

// enqueue never blocks the write path: a full or already closed queue
// drops the event with a warning.
func (s *AlertService) enqueue(event domain.AlertEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.logger.Warn().
			Str("product_id", event.ProductID).
			Str("status", string(event.NewStatus)).
			Msg("alert queue closed, event dropped")
		return
	}

	select {
	case s.queue <- event:
		metrics.AlertsEmittedTotal.WithLabelValues(string(event.NewStatus)).Inc()
	default:
		s.logger.Warn().
			Str("product_id", event.ProductID).
			Str("status", string(event.NewStatus)).
			Msg("alert queue full, event dropped")
	}
}

// Events exposes the queue of emitted alerts for publisher workers.
func (s *AlertService) Events() <-chan domain.AlertEvent {
	return s.queue
}

// Close stops the queue; pending events are still drained by workers. A
// Reevaluate still in flight drops its event instead of sending. Safe to
// call more than once.
func (s *AlertService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}
