package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/scrapekit/internal/entity"
)

// DefaultHeadersKey is the key holding the header snapshot.
const DefaultHeadersKey = "scrapekit:headers"

type headerRecord struct {
	Headers   []entity.HeaderSet `json:"headers"`
	Timestamp time.Time          `json:"timestamp"`
}

// HeaderStoreImpl keeps the header snapshot as one JSON value in Redis, so
// several processes can share a cache.
type HeaderStoreImpl struct {
	client *redis.Client
	key    string
}

// NewHeaderStore creates a new instance of HeaderStoreImpl.
func NewHeaderStore(client *redis.Client, key string) *HeaderStoreImpl {
	if key == "" {
		key = DefaultHeadersKey
	}
	return &HeaderStoreImpl{client: client, key: key}
}

// Load returns an empty snapshot when the key does not exist.
func (r *HeaderStoreImpl) Load(ctx context.Context) (*entity.HeaderSnapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &entity.HeaderSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var rec headerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return &entity.HeaderSnapshot{Headers: rec.Headers, FetchedAt: rec.Timestamp}, nil
}

// Save overwrites the key without expiry; staleness is decided by the timestamp.
func (r *HeaderStoreImpl) Save(ctx context.Context, snap *entity.HeaderSnapshot) error {
	data, err := json.Marshal(headerRecord{Headers: snap.Headers, Timestamp: snap.FetchedAt})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Ping checks the connection.
func (r *HeaderStoreImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
