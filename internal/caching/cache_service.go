package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/moeketsims/stocktracking-sub002/internal/stock"
	"github.com/moeketsims/stocktracking-sub002/pkg/logger"
)

// CacheService fronts Redis for the read paths that get hammered by
// dashboards. Every Get returns (nil, nil) on a miss; callers recompute
// and Set. Cache failures never fail a request.
type CacheService interface {
	// Location snapshot caching
	GetSnapshot(ctx context.Context, locationID uuid.UUID) (*stock.LocationSnapshot, error)
	SetSnapshot(ctx context.Context, snapshot *stock.LocationSnapshot, ttl time.Duration) error
	DeleteSnapshot(ctx context.Context, locationID uuid.UUID) error

	// Dashboard caching (full unfiltered snapshot list)
	GetDashboard(ctx context.Context) ([]*stock.LocationSnapshot, error)
	SetDashboard(ctx context.Context, snapshots []*stock.LocationSnapshot, ttl time.Duration) error
	DeleteDashboard(ctx context.Context) error

	// Trend series caching
	GetDailyTrend(ctx context.Context, locationID, itemID uuid.UUID, days int) ([]stock.DailyUsage, error)
	SetDailyTrend(ctx context.Context, locationID, itemID uuid.UUID, days int, series []stock.DailyUsage, ttl time.Duration) error

	// Cache invalidation
	InvalidateLocation(ctx context.Context, locationID uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisClient builds a redis client, accepting either a bare host:port or
// a redis:// URL for the address.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	return redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client *redis.Client, log *logger.Logger) CacheService {
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Msg("redis ping failed on initialization")
	}

	return &redisCacheService{client: client, log: log}
}

func (r *redisCacheService) GetSnapshot(ctx context.Context, locationID uuid.UUID) (*stock.LocationSnapshot, error) {
	key := fmt.Sprintf("stocktrack:snapshot:%s", locationID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot stock.LocationSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetSnapshot(ctx context.Context, snapshot *stock.LocationSnapshot, ttl time.Duration) error {
	key := fmt.Sprintf("stocktrack:snapshot:%s", snapshot.Location.ID.String())
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteSnapshot(ctx context.Context, locationID uuid.UUID) error {
	key := fmt.Sprintf("stocktrack:snapshot:%s", locationID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDashboard(ctx context.Context) ([]*stock.LocationSnapshot, error) {
	data, err := r.client.Get(ctx, "stocktrack:dashboard").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshots []*stock.LocationSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, snapshots []*stock.LocationSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshots)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "stocktrack:dashboard", data, ttl).Err()
}

func (r *redisCacheService) DeleteDashboard(ctx context.Context) error {
	return r.client.Del(ctx, "stocktrack:dashboard").Err()
}

func (r *redisCacheService) GetDailyTrend(ctx context.Context, locationID, itemID uuid.UUID, days int) ([]stock.DailyUsage, error) {
	key := fmt.Sprintf("stocktrack:trend:%s:%s:%d", locationID.String(), itemID.String(), days)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var series []stock.DailyUsage
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, err
	}
	return series, nil
}

func (r *redisCacheService) SetDailyTrend(ctx context.Context, locationID, itemID uuid.UUID, days int, series []stock.DailyUsage, ttl time.Duration) error {
	key := fmt.Sprintf("stocktrack:trend:%s:%s:%d", locationID.String(), itemID.String(), days)
	data, err := json.Marshal(series)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateLocation drops the location's snapshot, its trend series and
// the shared dashboard key. Called after every stock mutation.
func (r *redisCacheService) InvalidateLocation(ctx context.Context, locationID uuid.UUID) error {
	pattern := fmt.Sprintf("stocktrack:trend:%s:*", locationID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	keys = append(keys,
		fmt.Sprintf("stocktrack:snapshot:%s", locationID.String()),
		"stocktrack:dashboard")
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "stocktrack:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
