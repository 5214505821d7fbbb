package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda o último result set de recomendações no Redis.
// Client: cliente Redis
// TTL: validade do result set
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(c *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: c, TTL: ttl}
}

func keyLatest() string { return "recs:latest" }

// GetLatest carrega o result set cacheado em dst. Retorna false se expirado
// ou ausente.
func (c *Cache) GetLatest(ctx context.Context, dst any) (bool, error) {
	b, err := c.Client.Get(ctx, keyLatest()).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

// SetLatest grava o result set com o TTL configurado.
func (c *Cache) SetLatest(ctx context.Context, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, keyLatest(), b, c.TTL).Err()
}
