/* receipts.go
 * Contains the transaction receipts log. Receipts are display only and kept in a Redis list; an in-memory log is
 * used when Redis is not configured
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReceiptsKey is the Redis list holding receipts
const ReceiptsKey = "smallie_transactions"

// RedisReceipts stores receipts in a Redis list
type RedisReceipts struct {
	client *redis.Client
	key    string
}

// NewRedisReceipts connects to Redis and verifies the connection with a ping
// Preconditions: Receives context and the Redis address (host:port), password and db
// Postconditions: Returns the log, or an error if Redis is unreachable
func NewRedisReceipts(ctx context.Context, addr string, password string, db int) (*RedisReceipts, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisReceipts{client: client, key: ReceiptsKey}, nil
}

// Append pushes a receipt onto the end of the list
func (r *RedisReceipts) Append(ctx context.Context, receipt Receipt) error {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, raw).Err(); err != nil {
		return fmt.Errorf("failed to append receipt: %w", err)
	}
	return nil
}

// List returns every receipt in insertion order. Entries that fail to decode are skipped.
func (r *RedisReceipts) List(ctx context.Context) ([]Receipt, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}
	return decodeReceipts(raw), nil
}

// Close releases the Redis connection pool
func (r *RedisReceipts) Close() error {
	return r.client.Close()
}

func decodeReceipts(raw []string) []Receipt {
	receipts := make([]Receipt, 0, len(raw))
	for _, entry := range raw {
		var receipt Receipt
		if err := json.Unmarshal([]byte(entry), &receipt); err != nil {
			continue
		}
		receipts = append(receipts, receipt)
	}
	return receipts
}

// MemoryReceipts is a process local ReceiptLog
type MemoryReceipts struct {
	mu       sync.Mutex
	receipts []Receipt
}

func NewMemoryReceipts() *MemoryReceipts {
	return &MemoryReceipts{}
}

func (m *MemoryReceipts) Append(_ context.Context, receipt Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, receipt)
	return nil
}

func (m *MemoryReceipts) List(_ context.Context) ([]Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Receipt, len(m.receipts))
	copy(out, m.receipts)
	return out, nil
}
