package storage

import (
	"context"
	"sync"

	"github.com/storelane/inventory/internal/core/domain"
)

// MemoryStatusStore is the in-process alternative to RedisStatusStore,
// suitable for single-node deployments and tests. Losing it on restart only
// costs one duplicate alert per product.
type MemoryStatusStore struct {
	mu       sync.Mutex
	statuses map[string]domain.StockStatus
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]domain.StockStatus)}
}

func (m *MemoryStatusStore) Swap(_ context.Context, productID string, status domain.StockStatus) (domain.StockStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous, known := m.statuses[productID]
	if known && previous == status {
		return status, false, nil
	}
	m.statuses[productID] = status
	return previous, true, nil
}
