package domain

import "time"

type AdjustmentKind string

const (
	KindAdd      AdjustmentKind = "add"
	KindSubtract AdjustmentKind = "subtract"
	KindSet      AdjustmentKind = "set"
)

func ParseAdjustmentKind(v string) (AdjustmentKind, bool) {
	switch AdjustmentKind(v) {
	case KindAdd, KindSubtract, KindSet:
		return AdjustmentKind(v), true
	default:
		return "", false
	}
}

type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

func ParseStockStatus(v string) (StockStatus, bool) {
	switch StockStatus(v) {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return StockStatus(v), true
	default:
		return "", false
	}
}

// DefaultLowStockThreshold applies when a stock record is provisioned
// without an explicit threshold.
const DefaultLowStockThreshold = 10

// StockItem is the authoritative on-hand counter for one product. The
// product itself (name, price, category) belongs to the catalog; only the
// product id is referenced here. Quantity and Version are mutated solely
// through the ledger's conditional write.
type StockItem struct {
	ProductID         string    `json:"product_id"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Version           int64     `json:"version"` // optimistic locking
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AdjustmentEvent records one committed quantity change. Events are
// append-only: corrections are new events, never edits. The id is a
// time-ordered UUIDv7, so sorting by id is commit order per product.
type AdjustmentEvent struct {
	ID               string         `json:"id"`
	ProductID        string         `json:"product_id"`
	PreviousQuantity int            `json:"previous_quantity"`
	NewQuantity      int            `json:"new_quantity"`
	Delta            int            `json:"delta"`
	Kind             AdjustmentKind `json:"kind"`
	Reason           string         `json:"reason"`
	Actor            string         `json:"actor"`
	// Tag is an optional idempotency key for system-issued adjustments.
	// The ledger rejects a second event carrying the same tag.
	Tag       string    `json:"tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
