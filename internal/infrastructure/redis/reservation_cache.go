package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
)

var _ inventory.ReservationCache = (*ReservationCache)(nil)

// ReservationCache foto de reservas compartida entre instancias de la API.
// TTL cero = sin expiración (solo Invalidate la descarta).
type ReservationCache struct {
	client goredis.Cmdable
	key    string
	ttl    time.Duration
}

// NewReservationCache construye la caché sobre un cliente existente.
func NewReservationCache(client goredis.Cmdable, prefix string, ttl time.Duration) *ReservationCache {
	return &ReservationCache{client: client, key: keyFor(prefix), ttl: ttl}
}

func keyFor(prefix string) string {
	if prefix == "" {
		return "reservations:snapshot"
	}
	return prefix + ":reservations:snapshot"
}

// Get devuelve la foto guardada; ok=false si no hay.
func (c *ReservationCache) Get(ctx context.Context) (*inventory.Snapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	var s inventory.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, true, nil
}

func (c *ReservationCache) Set(ctx context.Context, s *inventory.Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *ReservationCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
