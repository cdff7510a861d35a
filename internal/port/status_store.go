package port

import (
	"context"

	"github.com/storelane/inventory/internal/core/domain"
)

// StatusStore keeps the last known stock status per product so the alert
// engine only emits on transitions.
type StatusStore interface {
	// Swap records status as the last known for the product and reports the
	// previous one. changed is false when the status is unchanged; previous
	// is empty on the first observation of a product.
	Swap(ctx context.Context, productID string, status domain.StockStatus) (previous domain.StockStatus, changed bool, err error)
}
