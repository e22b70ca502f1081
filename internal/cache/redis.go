package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/airtickets/config"
	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/redis/go-redis/v9"
)

const flightsGenerationKey = "cache:flights:generation"

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey(order)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// FlightsGeneration returns the invalidation counter. Read it before loading
// the listing from the database and hand it back to SetFlights.
func (c *RedisCache) FlightsGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, flightsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetFlights stores the listing only if no invalidation happened since
// generation was read. A skipped write is not an error.
func (c *RedisCache) SetFlights(ctx context.Context, order domain.SortOrder, generation int64, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, flightsGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, flightsKey(order), payload, c.flightsTTL)
			return nil
		})
		return err
	}, flightsGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// InvalidateFlights bumps the generation and drops every cached listing.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, flightsGenerationKey)
		pipe.Del(ctx,
			flightsKey(domain.SortNatural),
			flightsKey(domain.SortAsc),
			flightsKey(domain.SortDesc),
		)
		return nil
	})
	return err
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func flightsKey(order domain.SortOrder) string {
	if order == domain.SortNatural {
		return "cache:flights:natural"
	}
	return "cache:flights:" + string(order)
}
