package cart

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreFactory builds the durable-storage adapter for one visitor
type StoreFactory func(visitorID string) Store

// Manager hands out cart aggregators scoped to a visitor. Each aggregator is
// restored from that visitor's persisted cart on creation.
type Manager struct {
	factory StoreFactory
	logger  *zap.Logger
}

// NewManager creates a manager over an arbitrary store factory
func NewManager(factory StoreFactory, logger *zap.Logger) *Manager {
	return &Manager{
		factory: factory,
		logger:  logger,
	}
}

// NewRedisManager creates a manager whose carts persist in Redis
func NewRedisManager(client *redis.Client, logger *zap.Logger) *Manager {
	return NewManager(func(visitorID string) Store {
		return NewRedisStore(client, visitorID)
	}, logger)
}

// ForVisitor restores the visitor's cart, or starts an empty one
func (m *Manager) ForVisitor(ctx context.Context, visitorID string) *Aggregator {
	return NewAggregator(ctx, m.factory(visitorID), m.logger)
}
