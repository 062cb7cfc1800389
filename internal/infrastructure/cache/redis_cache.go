// Package cache implementa el cache del dashboard sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/reports"
)

var _ reports.DashboardCache = (*RedisDashboardCache)(nil)

// RedisDashboardCache implementación Redis de reports.DashboardCache.
type RedisDashboardCache struct {
	client *redis.Client
}

// NewRedisDashboardCache construye el cache con su cliente Redis.
func NewRedisDashboardCache(addr, password string, db int) *RedisDashboardCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisDashboardCache{client: client}
}

// Ping verifica la conexión.
func (c *RedisDashboardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}

// Get lee la respuesta cacheada; ok=false en cache miss.
func (c *RedisDashboardCache) Get(ctx context.Context, key string) (*dto.DashboardResponse, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp dto.DashboardResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

// Set escribe la respuesta con TTL.
func (c *RedisDashboardCache) Set(ctx context.Context, key string, value *dto.DashboardResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
