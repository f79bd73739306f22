package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/offers-api/internal/db"
	"github.com/sells-group/offers-api/internal/offers"
	"github.com/sells-group/offers-api/internal/resume"
)

// env bundles the shared backends the commands run against.
type env struct {
	Pool       db.Pool
	Redis      *redis.Client
	Offers     *offers.Service
	OfferStore *offers.PostgresStore
	Resumes    *resume.PostgresStore
}

func initEnv(ctx context.Context) (*env, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, eris.New("database URL is required (OFFERS_STORE_DATABASE_URL)")
	}

	pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	if err != nil {
		return nil, err
	}

	var (
		cache *offers.AnalysisCache
		rdb   *redis.Client
	)
	if cfg.Cache.RedisURL != "" {
		rdb, err = offers.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			pool.Close()
			return nil, err
		}
		cache = offers.NewAnalysisCache(rdb, time.Duration(cfg.Cache.TTLSecs)*time.Second)
		zap.L().Info("analysis cache enabled", zap.Int("ttl_secs", cfg.Cache.TTLSecs))
	}

	offerStore := offers.NewPostgresStore(pool)
	return &env{
		Pool:       pool,
		Redis:      rdb,
		Offers:     offers.NewService(offerStore, cache),
		OfferStore: offerStore,
		Resumes:    resume.NewPostgresStore(pool),
	}, nil
}

func (e *env) Close() {
	if e.Redis != nil {
		_ = e.Redis.Close()
	}
	e.Pool.Close()
}
