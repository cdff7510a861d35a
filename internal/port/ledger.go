package port

import (
	"context"

	"github.com/storelane/inventory/internal/core/domain"
)

// Ledger is the durable store of one quantity counter per product plus the
// append-only adjustment history. It stores and returns; it computes no
// business rules.
type Ledger interface {
	// Get returns the stock record, or domain.ErrNotFound.
	Get(ctx context.Context, productID string) (*domain.StockItem, error)

	// List returns a snapshot of all stock records.
	List(ctx context.Context) ([]domain.StockItem, error)

	// Provision creates the record with quantity 0 and the given threshold.
	// Returns domain.ErrAlreadyProvisioned on a second call.
	Provision(ctx context.Context, productID string, lowStockThreshold int) error

	// History returns adjustment events in reverse-chronological order.
	// cursor is the id of the last event from the previous page ("" for the
	// first page); nextCursor is "" when the page is the last one.
	History(ctx context.Context, productID, cursor string, limit int) (events []domain.AdjustmentEvent, nextCursor string, err error)

	// EventByTag finds the event carrying the given idempotency tag, or
	// domain.ErrNotFound. Used to resolve reservations from the log.
	EventByTag(ctx context.Context, tag string) (*domain.AdjustmentEvent, error)

	// CompareAndWrite persists newQuantity, increments version, and appends
	// event as one atomic unit, but only if the stored version still equals
	// expectedVersion. On mismatch it returns domain.ErrConflict and writes
	// nothing. An event whose Tag is already committed writes nothing and
	// returns domain.ErrDuplicateTag.
	CompareAndWrite(ctx context.Context, productID string, expectedVersion int64, newQuantity int, event domain.AdjustmentEvent) error
}
