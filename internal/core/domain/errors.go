package domain

import "errors"

var (
	// ErrNotFound means no stock record exists for the product; callers
	// must provision one before adjusting.
	ErrNotFound = errors.New("stock record not found")

	// ErrAlreadyProvisioned is returned when provisioning a product that
	// already has a stock record.
	ErrAlreadyProvisioned = errors.New("stock record already exists")

	// ErrConflict is a transient version mismatch on a conditional write.
	// It is retried inside the adjustment engine and never leaks to callers.
	ErrConflict = errors.New("stock version conflict")

	// ErrInvalidAdjustment means the adjustment would drive quantity
	// negative; nothing is written.
	ErrInvalidAdjustment = errors.New("adjustment would make stock negative")

	// ErrContention means the retry budget was exhausted on a hot product.
	ErrContention = errors.New("stock under contention, retry")

	// ErrDuplicateTag means an event with the same idempotency tag is
	// already committed; nothing is written.
	ErrDuplicateTag = errors.New("adjustment tag already recorded")

	// ErrInsufficientStock means a reservation cannot be satisfied by the
	// remaining quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyReleased     = errors.New("reservation already released")
)
