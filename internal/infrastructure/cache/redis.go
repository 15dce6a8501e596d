package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/config"
)

// New crea el cliente Redis y verifica la conexión.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

var _ inventory.ValuationCache = (*ValuationCache)(nil)

// ValuationCache guarda valorizaciones serializadas en JSON.
type ValuationCache struct {
	client *redis.Client
}

// NewValuationCache envuelve el cliente.
func NewValuationCache(client *redis.Client) *ValuationCache {
	return &ValuationCache{client: client}
}

// Get devuelve nil, nil si la clave no existe.
func (c *ValuationCache) Get(ctx context.Context, key string) (*dto.ItemValuationResponse, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	var v dto.ItemValuationResponse
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return &v, nil
}

// Set guarda v con expiración ttl.
func (c *ValuationCache) Set(ctx context.Context, key string, v *dto.ItemValuationResponse, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete borra las claves indicadas; las inexistentes se ignoran.
func (c *ValuationCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
