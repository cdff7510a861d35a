package storage

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/inventory/internal/core/domain"
)

func getRedisStatusStore(t *testing.T) (*RedisStatusStore, *redis.Client) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return NewRedisStatusStore(client), client
}

func TestRedisSwap_FirstObservation(t *testing.T) {
	store, client := getRedisStatusStore(t)
	defer client.Close()

	ctx := context.Background()
	productID := "status-first-item"
	client.Del(ctx, statusKeyPrefix+productID)

	previous, changed, err := store.Swap(ctx, productID, domain.StatusInStock)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StockStatus(""), previous)

	client.Del(ctx, statusKeyPrefix+productID)
}

func TestRedisSwap_UnchangedStatus(t *testing.T) {
	store, client := getRedisStatusStore(t)
	defer client.Close()

	ctx := context.Background()
	productID := "status-unchanged-item"
	client.Del(ctx, statusKeyPrefix+productID)

	_, _, err := store.Swap(ctx, productID, domain.StatusLowStock)
	require.NoError(t, err)

	previous, changed, err := store.Swap(ctx, productID, domain.StatusLowStock)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.StatusLowStock, previous)

	client.Del(ctx, statusKeyPrefix+productID)
}

func TestRedisSwap_Transition(t *testing.T) {
	store, client := getRedisStatusStore(t)
	defer client.Close()

	ctx := context.Background()
	productID := "status-transition-item"
	client.Del(ctx, statusKeyPrefix+productID)

	_, _, err := store.Swap(ctx, productID, domain.StatusInStock)
	require.NoError(t, err)

	previous, changed, err := store.Swap(ctx, productID, domain.StatusOutOfStock)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StatusInStock, previous)

	client.Del(ctx, statusKeyPrefix+productID)
}

// Concurrent swaps to the same status: exactly one caller sees the change.
func TestRedisSwap_ConcurrentSwapsObserveOneTransition(t *testing.T) {
	store, client := getRedisStatusStore(t)
	defer client.Close()

	ctx := context.Background()
	productID := "status-race-item"
	client.Del(ctx, statusKeyPrefix+productID)

	_, _, err := store.Swap(ctx, productID, domain.StatusInStock)
	require.NoError(t, err)

	var mu sync.Mutex
	changedCount := 0
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, changed, err := store.Swap(ctx, productID, domain.StatusOutOfStock)
			if err != nil {
				t.Errorf("swap failed: %v", err)
				return
			}
			if changed {
				mu.Lock()
				changedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, changedCount)

	client.Del(ctx, statusKeyPrefix+productID)
}
