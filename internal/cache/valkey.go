package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"sawari/internal/config"
	"sawari/internal/models"

	"github.com/redis/go-redis/v9"
)

// ValkeyClient caches per-bus availability snapshots and positive auth
// lookups. Cache failures are never surfaced to callers as operation
// failures; the store stays authoritative.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg config.CacheConfig) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb, ttl: cfg.TTL}, nil
}

func availabilityKey(busID int64) string {
	return fmt.Sprintf("bus:%d:availability", busID)
}

// GetAvailability returns the cached availability snapshot for a bus, or
// an error on a miss.
func (v *ValkeyClient) GetAvailability(ctx context.Context, busID int64) (*models.AvailabilityResponse, error) {
	raw, err := v.client.Get(ctx, availabilityKey(busID)).Bytes()
	if err != nil {
		return nil, err
	}
	var resp models.AvailabilityResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetAvailability stores a short-lived availability snapshot.
func (v *ValkeyClient) SetAvailability(ctx context.Context, resp *models.AvailabilityResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return v.client.Set(ctx, availabilityKey(resp.BusID), raw, v.ttl).Err()
}

// InvalidateAvailability drops the snapshot after any mutation of the
// bus's inventory.
func (v *ValkeyClient) InvalidateAvailability(ctx context.Context, busID int64) error {
	return v.client.Del(ctx, availabilityKey(busID)).Err()
}

const authHashKey = "users:auth"

// GetUserIDByAuth looks up a positive Basic Auth verification in the
// cache.
func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, username, passwordHash string) (int64, error) {
	cacheKey := base64.StdEncoding.EncodeToString([]byte(username + ":" + passwordHash))
	userIDStr, err := v.client.HGet(ctx, authHashKey, cacheKey).Result()
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}
	return userID, nil
}

// SetUserIDByAuth records a positive Basic Auth verification.
func (v *ValkeyClient) SetUserIDByAuth(ctx context.Context, username, passwordHash string, userID int64) error {
	cacheKey := base64.StdEncoding.EncodeToString([]byte(username + ":" + passwordHash))
	return v.client.HSet(ctx, authHashKey, cacheKey, strconv.FormatInt(userID, 10)).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
