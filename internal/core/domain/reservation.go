package domain

import "time"

// ActorCheckout tags adjustments issued by the reservation gate on behalf
// of the order/checkout flow.
const ActorCheckout = "system:checkout"

// Reservation is a committed Subtract adjustment made for an in-progress
// order. There is no soft-hold table: availability is the committed
// quantity, and the reservation is recoverable from the event log through
// its idempotency tag.
type Reservation struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationTag is the idempotency tag written with the reserving Subtract.
func ReservationTag(reservationID string) string {
	return "reservation:" + reservationID
}

// ReleaseTag is the idempotency tag written with the compensating Add. Its
// uniqueness in the ledger is what makes a second release fail even when
// two release calls race.
func ReleaseTag(reservationID string) string {
	return "release:" + reservationID
}
