package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storelane/inventory/internal/core/domain"
	"github.com/storelane/inventory/internal/metrics"
	"github.com/storelane/inventory/internal/port"
)

const (
	initialBackoff = 10 * time.Millisecond
	maxBackoff     = 100 * time.Millisecond
)

// AdjustmentService validates and applies add/subtract/set operations
// against the ledger. Correctness under concurrent writers comes from the
// ledger's atomic conditional write plus a bounded retry loop that always
// re-derives the new quantity from a freshly read current value — no global
// lock over a product's stock.
type AdjustmentService struct {
	ledger      port.Ledger
	alerts      *AlertService
	logger      zerolog.Logger
	maxRetries  int
	retryBudget time.Duration
}

func NewAdjustmentService(ledger port.Ledger, alerts *AlertService, logger zerolog.Logger, maxRetries int, retryBudget time.Duration) *AdjustmentService {
	return &AdjustmentService{
		ledger:      ledger,
		alerts:      alerts,
		logger:      logger,
		maxRetries:  maxRetries,
		retryBudget: retryBudget,
	}
}

// Adjust applies one quantity change and returns the committed event.
// quantity must be positive for every kind; for Set it is the new quantity
// itself. Transient version conflicts are retried internally with
// exponential backoff; exhausting the retry or time budget surfaces
// domain.ErrContention.
func (s *AdjustmentService) Adjust(ctx context.Context, productID string, quantity int, kind domain.AdjustmentKind, reason, actor string) (*domain.AdjustmentEvent, error) {
	return s.apply(ctx, productID, quantity, kind, reason, actor, "")
}

// AdjustTagged is Adjust with an idempotency tag on the committed event. A
// tag already present in the ledger fails with domain.ErrDuplicateTag and
// writes nothing.
func (s *AdjustmentService) AdjustTagged(ctx context.Context, productID string, quantity int, kind domain.AdjustmentKind, reason, actor, tag string) (*domain.AdjustmentEvent, error) {
	return s.apply(ctx, productID, quantity, kind, reason, actor, tag)
}

func (s *AdjustmentService) apply(ctx context.Context, productID string, quantity int, kind domain.AdjustmentKind, reason, actor, tag string) (*domain.AdjustmentEvent, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidAdjustment)
	}

	deadline := time.Now().Add(s.retryBudget)
	backoff := initialBackoff

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			if time.Now().After(deadline) {
				break
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		item, err := s.ledger.Get(ctx, productID)
		if err != nil {
			return nil, err
		}

		var newQuantity int
		switch kind {
		case domain.KindAdd:
			newQuantity = item.Quantity + quantity
		case domain.KindSubtract:
			newQuantity = item.Quantity - quantity
		case domain.KindSet:
			newQuantity = quantity
		default:
			return nil, fmt.Errorf("unknown adjustment kind %q", kind)
		}

		if newQuantity < 0 {
			metrics.AdjustmentsTotal.WithLabelValues(string(kind), "invalid").Inc()
			return nil, domain.ErrInvalidAdjustment
		}

		event := domain.AdjustmentEvent{
			ID:               uuid.Must(uuid.NewV7()).String(),
			ProductID:        productID,
			PreviousQuantity: item.Quantity,
			NewQuantity:      newQuantity,
			Delta:            newQuantity - item.Quantity,
			Kind:             kind,
			Reason:           reason,
			Actor:            actor,
			Tag:              tag,
			CreatedAt:        time.Now().UTC(),
		}

		err = s.ledger.CompareAndWrite(ctx, productID, item.Version, newQuantity, event)
		if errors.Is(err, domain.ErrConflict) {
			metrics.VersionConflictsTotal.Inc()
			s.logger.Debug().
				Str("product_id", productID).
				Int64("version", item.Version).
				Int("attempt", attempt+1).
				Msg("version conflict, retrying")
			continue
		}
		if errors.Is(err, domain.ErrDuplicateTag) {
			metrics.AdjustmentsTotal.WithLabelValues(string(kind), "duplicate").Inc()
			return nil, err
		}
		if err != nil {
			metrics.AdjustmentsTotal.WithLabelValues(string(kind), "error").Inc()
			return nil, fmt.Errorf("compare and write: %w", err)
		}

		metrics.AdjustmentsTotal.WithLabelValues(string(kind), "ok").Inc()

		// Best-effort: a failure here must not undo the committed write.
		if _, alertErr := s.alerts.Reevaluate(ctx, productID, newQuantity, item.LowStockThreshold); alertErr != nil {
			s.logger.Error().Err(alertErr).
				Str("product_id", productID).
				Msg("status re-evaluation failed after committed adjustment")
		}

		return &event, nil
	}

	metrics.AdjustmentsTotal.WithLabelValues(string(kind), "contention").Inc()
	return nil, domain.ErrContention
}
