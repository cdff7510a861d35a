package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/inventory/internal/core/domain"
)

func TestMemorySwap(t *testing.T) {
	store := NewMemoryStatusStore()
	ctx := context.Background()

	previous, changed, err := store.Swap(ctx, "item-1", domain.StatusInStock)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StockStatus(""), previous)

	previous, changed, err = store.Swap(ctx, "item-1", domain.StatusInStock)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.StatusInStock, previous)

	previous, changed, err = store.Swap(ctx, "item-1", domain.StatusOutOfStock)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StatusInStock, previous)
}

func TestMemorySwap_ProductsAreIndependent(t *testing.T) {
	store := NewMemoryStatusStore()
	ctx := context.Background()

	_, changedA, err := store.Swap(ctx, "item-a", domain.StatusLowStock)
	require.NoError(t, err)
	_, changedB, err2 := store.Swap(ctx, "item-b", domain.StatusLowStock)
	require.NoError(t, err2)

	assert.True(t, changedA)
	assert.True(t, changedB)
}
