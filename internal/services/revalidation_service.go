// internal/services/revalidation_service.go
package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/openroyalty/marketplace-backend/internal/config"
)

// RevalidationService tells the presentation layer which views are stale
// after a successful mutation. The signal is fire-and-forget: it is sent
// after the owning transaction commits and never affects the caller's result.
type RevalidationService struct {
	client  *redis.Client
	channel string
}

func NewRevalidationService(cfg *config.Config) *RevalidationService {
	s := &RevalidationService{channel: cfg.Redis.RevalidateChannel}

	if cfg.Redis.Addr != "" {
		s.client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s
}

// Revalidate publishes each stale view path. A nil client (no Redis
// configured) makes this a no-op so local development works without Redis.
func (s *RevalidationService) Revalidate(paths ...string) {
	if s == nil || s.client == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		for _, path := range paths {
			if err := s.client.Publish(ctx, s.channel, path).Err(); err != nil {
				logrus.WithError(err).WithField("path", path).Warn("Failed to publish revalidation")
			}
		}
	}()
}
