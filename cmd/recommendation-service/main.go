package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	rcache "github.com/radieske/parlay-recommender-poc/internal/recommendation-service/cache"
	rhttp "github.com/radieske/parlay-recommender-poc/internal/recommendation-service/http"
	"github.com/radieske/parlay-recommender-poc/internal/recommendation-service/repo"
	"github.com/radieske/parlay-recommender-poc/internal/recommender"
	"github.com/radieske/parlay-recommender-poc/internal/shared/cache"
	"github.com/radieske/parlay-recommender-poc/internal/shared/config"
	"github.com/radieske/parlay-recommender-poc/internal/shared/db"
	"github.com/radieske/parlay-recommender-poc/internal/shared/logger"
	"github.com/radieske/parlay-recommender-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// Postgres: fonte de oportunidades abertas
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// Redis: cache do result set
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// Motor de recomendação com os parâmetros de favoritos vindos do ambiente
	engCfg := recommender.DefaultConfig()
	engCfg.Favorite.LegCount = cfg.FavoriteLegs
	engCfg.Favorite.MinOdds = cfg.FavoriteMinOdds
	engCfg.Favorite.MinWinProb = cfg.FavoriteMinWinProb
	engine := recommender.New(engCfg, log)

	api := &rhttp.API{
		Log:       log,
		Engine:    engine,
		Source:    repo.NewReadRepo(pg),
		Cache:     rcache.New(redisClient, cfg.CacheTTL),
		PoolLimit: cfg.PoolLimit,
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health server started", zap.String("port", cfg.MetricsPort))

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("recommendation-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api server failed", zap.Error(err))
	}
}
