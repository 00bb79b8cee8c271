package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/metrics"
)

const CACHE_SERVICE = "quote-cache-service"

// Service fronts the shared store with a transparent in-process fallback.
// An entry lives in exactly one store: the shared one normally, the local
// one while the shared store is unreachable. Reads consult both.
type Service struct {
	container.BaseDIInstance

	conf   *config.CacheConfig
	client *redis.Client
	shared *RedisStore
	local  *MemoryStore
}

func (svc *Service) ID() string {
	return CACHE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.CACHE_CONFIG_KEY).(*config.CacheConfig)

	svc.client = redis.NewClient(&redis.Options{
		Addr:     svc.conf.RedisAddr,
		Password: svc.conf.RedisPassword,
		DB:       svc.conf.RedisDB,
	})
	svc.shared = NewRedisStore(svc.client)
	svc.local = NewMemoryStore(time.Duration(svc.conf.SweepIntervalSeconds) * time.Second)
	return nil
}

func (svc *Service) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := svc.client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).
			Str("addr", svc.conf.RedisAddr).
			Msg("[quoteCache] shared store unreachable at start-up, serving from in-process store")
	} else {
		log.Info().Str("addr", svc.conf.RedisAddr).Msg("[quoteCache] connected to shared store")
	}

	svc.local.StartJanitor()
	return nil
}

func (svc *Service) Stop() error {
	svc.local.StopJanitor()
	return svc.client.Close()
}

func (svc *Service) Put(ctx context.Context, id string, entry *domain.CachedQuoteEntry, ttl time.Duration) error {
	if err := svc.shared.Put(ctx, id, entry, ttl); err != nil {
		svc.degraded("put", err)
		return svc.local.Put(ctx, id, entry, ttl)
	}
	return nil
}

func (svc *Service) Get(ctx context.Context, id string) (*domain.CachedQuoteEntry, error) {
	entry, err := svc.shared.Get(ctx, id)
	if err != nil {
		svc.degraded("get", err)
	} else if entry != nil {
		return entry, nil
	}
	return svc.local.Get(ctx, id)
}

func (svc *Service) Claim(ctx context.Context, id string) (*domain.CachedQuoteEntry, error) {
	entry, err := svc.shared.Claim(ctx, id)
	if err != nil {
		svc.degraded("claim", err)
	} else if entry != nil {
		return entry, nil
	}
	return svc.local.Claim(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.shared.Delete(ctx, id); err != nil {
		svc.degraded("delete", err)
	}
	return svc.local.Delete(ctx, id)
}

func (svc *Service) degraded(op string, err error) {
	metrics.QuoteCacheDegraded.Inc()
	log.Warn().Err(err).Str("op", op).Msg("[quoteCache] shared store failed, using in-process store")
}

var _ Store = (*Service)(nil)
