package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/inventory/internal/core/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      domain.StockStatus
	}{
		{"zero is out of stock", 0, 10, domain.StatusOutOfStock},
		{"at threshold is low", 10, 10, domain.StatusLowStock},
		{"below threshold is low", 1, 10, domain.StatusLowStock},
		{"above threshold is in stock", 11, 10, domain.StatusInStock},
		{"zero threshold, positive stock", 5, 0, domain.StatusInStock},
		{"zero threshold, zero stock", 0, 0, domain.StatusOutOfStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.quantity, tt.threshold))
		})
	}
}

func TestReevaluate_FirstObservationEmits(t *testing.T) {
	svc := NewAlertService(newStubStatusStore(), zerolog.Nop(), 10)
	defer svc.Close()

	event, err := svc.Reevaluate(context.Background(), "item-1", 50, 10)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.StockStatus(""), event.PreviousStatus)
	assert.Equal(t, domain.StatusInStock, event.NewStatus)
	assert.Equal(t, 50, event.Quantity)

	queued := <-svc.Events()
	assert.Equal(t, *event, queued)
}

func TestReevaluate_EmitsOnTransition(t *testing.T) {
	svc := NewAlertService(newStubStatusStore(), zerolog.Nop(), 10)
	defer svc.Close()

	ctx := context.Background()

	_, err := svc.Reevaluate(ctx, "item-1", 50, 10)
	require.NoError(t, err)

	event, err := svc.Reevaluate(ctx, "item-1", 5, 10)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.StatusInStock, event.PreviousStatus)
	assert.Equal(t, domain.StatusLowStock, event.NewStatus)

	event, err = svc.Reevaluate(ctx, "item-1", 0, 10)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.StatusLowStock, event.PreviousStatus)
	assert.Equal(t, domain.StatusOutOfStock, event.NewStatus)
}

// Stock drifting inside the low band must not re-alert on every unit sold.
func TestReevaluate_DeduplicatesWithinBand(t *testing.T) {
	svc := NewAlertService(newStubStatusStore(), zerolog.Nop(), 10)
	defer svc.Close()

	ctx := context.Background()

	event, err := svc.Reevaluate(ctx, "item-1", 9, 10)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.StatusLowStock, event.NewStatus)

	for _, qty := range []int{8, 7, 5, 2, 1} {
		event, err := svc.Reevaluate(ctx, "item-1", qty, 10)
		require.NoError(t, err)
		assert.Nil(t, event)
	}

	// Exactly one event queued for the whole descent.
	assert.Len(t, svc.Events(), 1)
}

func TestReevaluate_IndependentProducts(t *testing.T) {
	svc := NewAlertService(newStubStatusStore(), zerolog.Nop(), 10)
	defer svc.Close()

	ctx := context.Background()

	a, err := svc.Reevaluate(ctx, "item-a", 0, 10)
	require.NoError(t, err)
	require.NotNil(t, a)

	b, err := svc.Reevaluate(ctx, "item-b", 100, 10)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, domain.StatusOutOfStock, a.NewStatus)
	assert.Equal(t, domain.StatusInStock, b.NewStatus)
}

// A re-evaluation landing after shutdown closed the queue must drop its
// event instead of panicking on the closed channel.
func TestReevaluate_AfterCloseDropsEvent(t *testing.T) {
	svc := NewAlertService(newStubStatusStore(), zerolog.Nop(), 10)
	svc.Close()

	event, err := svc.Reevaluate(context.Background(), "item-1", 0, 10)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.StatusOutOfStock, event.NewStatus)

	// A second Close is a no-op.
	svc.Close()
}

func TestReevaluate_FullQueueDoesNotBlock(t *testing.T) {
	svc := NewAlertService(newStubStatusStore(), zerolog.Nop(), 1)
	defer svc.Close()

	ctx := context.Background()

	_, err := svc.Reevaluate(ctx, "item-1", 50, 10)
	require.NoError(t, err)

	// Queue is full now; the next transition must still return promptly.
	event, err := svc.Reevaluate(ctx, "item-1", 0, 10)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.StatusOutOfStock, event.NewStatus)
}
