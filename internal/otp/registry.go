package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "auth:otp:"

// Registry stores at most one live OTP record per email. Set overwrites
// any previous record for the same address.
type Registry interface {
	Set(ctx context.Context, email string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, email string) (Record, bool, error)
	Delete(ctx context.Context, email string) error
}

// NormalizeEmail lowercases and trims an address so that registry keys
// and user lookups agree on case-insensitive emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RedisRegistry backs the registry with Redis, letting the store's own
// TTL reap abandoned records.
type RedisRegistry struct {
	client redis.UniversalClient
}

func NewRedisRegistry(client redis.UniversalClient) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Set(ctx context.Context, email string, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+NormalizeEmail(email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store otp record: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Get(ctx context.Context, email string) (Record, bool, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+NormalizeEmail(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("load otp record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decode otp record: %w", err)
	}
	return rec, true, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, redisKeyPrefix+NormalizeEmail(email)).Err()
}

// MemoryRegistry is a process-local registry used in tests and
// single-instance development setups.
type MemoryRegistry struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{records: map[string]Record{}}
}

func (m *MemoryRegistry) Set(_ context.Context, email string, rec Record, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[NormalizeEmail(email)] = rec
	return nil
}

func (m *MemoryRegistry) Get(_ context.Context, email string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[NormalizeEmail(email)]
	return rec, ok, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, NormalizeEmail(email))
	return nil
}
