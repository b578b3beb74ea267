package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safegear/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// cartKeyPrefix namespaces cart entries in Redis
	cartKeyPrefix = "safegear:cart:"

	// cartTTL expires abandoned carts after 30 days
	cartTTL = 30 * 24 * time.Hour
)

// RedisStore persists one visitor's cart as a JSON document under a fixed key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store for the given visitor id
func NewRedisStore(client *redis.Client, visitorID string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    cartKeyPrefix + visitorID,
	}
}

func (s *RedisStore) Load(ctx context.Context) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode stored cart: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []domain.CartLine{}
	}

	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
