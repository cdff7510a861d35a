package port

import (
	"context"

	"github.com/storelane/inventory/internal/core/domain"
)

// AlertPublisher delivers alert events to the notification collaborator.
// This core only emits; rendering and delivery happen elsewhere.
type AlertPublisher interface {
	Publish(ctx context.Context, event domain.AlertEvent) error
	Close() error
}
