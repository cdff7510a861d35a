package domain

import "time"

// AlertEvent is emitted when a product's derived stock status changes band.
// It is published, not persisted — the event log plus the counter remain the
// only sources of truth.
type AlertEvent struct {
	ProductID      string      `json:"product_id"`
	PreviousStatus StockStatus `json:"previous_status"` // empty on first observation
	NewStatus      StockStatus `json:"new_status"`
	Quantity       int         `json:"quantity"`
	At             time.Time   `json:"at"`
}
