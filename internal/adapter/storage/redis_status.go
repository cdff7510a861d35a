package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/storelane/inventory/internal/core/domain"
)

const statusKeyPrefix = "stockstatus:"

// firstObservation marks a swap on a product with no recorded status yet.
const firstObservation = "__none__"

var swapStatusScript = redis.NewScript(`
local key = KEYS[1]
local status = ARGV[1]

local prev = redis.call('GET', key)
if prev == status then
	return ''
end

redis.call('SET', key, status)
if prev then
	return prev
end

return '__none__'
`)

// RedisStatusStore keeps the last known stock status per product in Redis,
// swapped atomically so concurrent re-evaluations of the same product never
// both observe a transition.
type RedisStatusStore struct {
	client *redis.Client
}

func NewRedisStatusStore(client *redis.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func (r *RedisStatusStore) Swap(ctx context.Context, productID string, status domain.StockStatus) (domain.StockStatus, bool, error) {
	key := statusKeyPrefix + productID

	result, err := swapStatusScript.Run(ctx, r.client, []string{key}, string(status)).Text()
	if err != nil {
		return "", false, fmt.Errorf("swap status: %w", err)
	}

	switch result {
	case "":
		return status, false, nil
	case firstObservation:
		return "", true, nil
	default:
		return domain.StockStatus(result), true, nil
	}
}
