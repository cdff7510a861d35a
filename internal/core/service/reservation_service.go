package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storelane/inventory/internal/core/domain"
	"github.com/storelane/inventory/internal/metrics"
	"github.com/storelane/inventory/internal/port"
)

// ReservationService is the entry point used by checkout to atomically
// check-and-decrement quantity when an order is placed, and to release it
// back on cancellation. It is a thin gate over the adjustment engine's
// Subtract path, so two simultaneous reservations against the last unit are
// resolved by the ledger's conditional write — exactly one succeeds.
type ReservationService struct {
	adjustments *AdjustmentService
	ledger      port.Ledger
	logger      zerolog.Logger
}

func NewReservationService(adjustments *AdjustmentService, ledger port.Ledger, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		adjustments: adjustments,
		ledger:      ledger,
		logger:      logger,
	}
}

// Reserve decrements quantity for an order line item. A decrement that the
// remaining quantity cannot satisfy — after the engine's own retries rule
// out a transient conflict — fails with domain.ErrInsufficientStock.
func (s *ReservationService) Reserve(ctx context.Context, productID string, quantity int) (*domain.Reservation, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidAdjustment)
	}

	reservationID := uuid.Must(uuid.NewV7()).String()

	event, err := s.adjustments.AdjustTagged(ctx, productID, quantity, domain.KindSubtract,
		"order reservation", domain.ActorCheckout, domain.ReservationTag(reservationID))
	if errors.Is(err, domain.ErrInvalidAdjustment) {
		metrics.ReservationsTotal.WithLabelValues("insufficient").Inc()
		return nil, domain.ErrInsufficientStock
	}
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("reservation_id", reservationID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("stock reserved")

	return &domain.Reservation{
		ID:        reservationID,
		ProductID: productID,
		Quantity:  quantity,
		EventID:   event.ID,
		CreatedAt: event.CreatedAt,
	}, nil
}

// Release restores the quantity taken by a reservation, used on cart
// removal, checkout failure, or order cancellation. The original
// reservation is resolved from the event log by its idempotency tag; a
// second release of the same reservation is rejected.
func (s *ReservationService) Release(ctx context.Context, reservationID string) (*domain.AdjustmentEvent, error) {
	original, err := s.ledger.EventByTag(ctx, domain.ReservationTag(reservationID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}

	// Fast path only. The unique release tag inside CompareAndWrite is
	// what actually rejects a concurrent second release.
	_, err = s.ledger.EventByTag(ctx, domain.ReleaseTag(reservationID))
	if err == nil {
		return nil, domain.ErrAlreadyReleased
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	event, err := s.adjustments.AdjustTagged(ctx, original.ProductID, -original.Delta, domain.KindAdd,
		"reservation release", domain.ActorCheckout, domain.ReleaseTag(reservationID))
	if errors.Is(err, domain.ErrDuplicateTag) {
		return nil, domain.ErrAlreadyReleased
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("reservation_id", reservationID).
		Str("product_id", original.ProductID).
		Int("quantity", -original.Delta).
		Msg("reservation released")

	return event, nil
}
