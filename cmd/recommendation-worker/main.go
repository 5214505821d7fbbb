package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	rcache "github.com/radieske/parlay-recommender-poc/internal/recommendation-service/cache"
	"github.com/radieske/parlay-recommender-poc/internal/recommendation-service/producer"
	"github.com/radieske/parlay-recommender-poc/internal/recommendation-service/repo"
	"github.com/radieske/parlay-recommender-poc/internal/recommender"
	sharedcache "github.com/radieske/parlay-recommender-poc/internal/shared/cache"
	"github.com/radieske/parlay-recommender-poc/internal/shared/config"
	"github.com/radieske/parlay-recommender-poc/internal/shared/db"
	"github.com/radieske/parlay-recommender-poc/internal/shared/kafka"
	"github.com/radieske/parlay-recommender-poc/internal/shared/logger"
	"github.com/radieske/parlay-recommender-poc/internal/shared/metrics"
	"github.com/radieske/parlay-recommender-poc/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres, Redis e Kafka
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRecommendations)
	defer writer.Close()

	// DLQ opcional: recomendações que falharam na publicação
	var dlqWriter *kafka.Writer
	if cfg.TopicRecommendationsDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRecommendationsDLQ)
		defer dlqWriter.Close()
	}

	source := repo.NewReadRepo(pg)
	recsCache := rcache.New(redisClient, cfg.CacheTTL)
	publisher := producer.NewKafkaPublisher(writer, cfg.TopicRecommendations)

	engCfg := recommender.DefaultConfig()
	engCfg.Favorite.LegCount = cfg.FavoriteLegs
	engCfg.Favorite.MinOdds = cfg.FavoriteMinOdds
	engCfg.Favorite.MinWinProb = cfg.FavoriteMinWinProb
	engine := recommender.New(engCfg, log)

	// Métricas Prometheus por estágio da recomputação
	recomputes := prometheus.NewCounter(prometheus.CounterOpts{Name: "reco_worker_recomputes_total", Help: "recomputações executadas"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "reco_worker_recommendations_published_total", Help: "recomendações publicadas no kafka"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "reco_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(recomputes, published, errorsBy)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	// Shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("recommendation-worker started",
		zap.Duration("interval", cfg.WorkerInterval),
		zap.Int("pool_limit", cfg.PoolLimit),
	)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	// primeira recomputação imediata, depois a cada tick
	recompute(ctx, log, engine, source, recsCache, publisher, dlqWriter, cfg.PoolLimit, recomputes, published, errorsBy)
	for {
		select {
		case <-ctx.Done():
			log.Info("recommendation-worker stopped")
			return
		case <-ticker.C:
			recompute(ctx, log, engine, source, recsCache, publisher, dlqWriter, cfg.PoolLimit, recomputes, published, errorsBy)
		}
	}
}

// recompute roda um ciclo completo: busca pool, recomenda, aquece o cache e
// publica cada recomendação no Kafka. Falhas degradam o ciclo, nunca o worker.
func recompute(
	ctx context.Context,
	log *zap.Logger,
	engine *recommender.Engine,
	source *repo.ReadRepo,
	recsCache *rcache.Cache,
	publisher *producer.KafkaPublisher,
	dlqWriter *kafka.Writer,
	poolLimit int,
	recomputes, published prometheus.Counter,
	errorsBy *prometheus.CounterVec,
) {
	pool, err := source.ListOpen(ctx, poolLimit)
	if err != nil {
		log.Warn("opportunity source failed", zap.Error(err))
		errorsBy.WithLabelValues("source").Inc()
		return
	}

	set := engine.Recommend(pool)
	recomputes.Inc()

	if err := recsCache.SetLatest(ctx, set); err != nil {
		log.Warn("cache warm failed", zap.Error(err))
		errorsBy.WithLabelValues("cache").Inc()
		// não bloqueia a publicação se o cache falhar
	}

	now := time.Now().UTC()
	total := 0
	for category, recs := range set {
		for rank, rec := range recs {
			ev := toEvent(category, rank+1, rec, now)
			if err := publisher.PublishRecommendation(ctx, ev); err != nil {
				log.Warn("kafka publish failed", zap.String("category", category), zap.Error(err))
				errorsBy.WithLabelValues("publish").Inc()
				if dlqWriter != nil {
					_ = kafka.WriteJSON(ctx, dlqWriter, category, mustJSON(ev))
				}
				continue
			}
			published.Inc()
			total++
		}
	}

	log.Info("recompute done",
		zap.Int("pool", len(pool)),
		zap.Int("published", total),
	)
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

// toEvent converte a recomendação do motor no contrato publicado no Kafka.
func toEvent(category string, rank int, rec recommender.Recommendation, at time.Time) events.ParlayRecommended {
	legs := make([]events.RecommendedLeg, len(rec.Legs))
	for i, l := range rec.Legs {
		legs[i] = events.RecommendedLeg{
			OpportunityID: l.ID,
			Label:         l.Label,
			Category:      l.Category,
			Odds:          l.Odds,
			Probability:   l.Probability,
		}
	}
	return events.ParlayRecommended{
		Category:           category,
		Rank:               rank,
		Legs:               legs,
		CombinedOdds:       rec.CombinedOdds,
		AmericanOdds:       rec.AmericanOdds,
		WinProbability:     rec.WinProbability,
		ExpectedValue:      rec.ExpectedValue,
		CorrelationPenalty: rec.CorrelationPenalty,
		GeneratedAt:        at,
		Source:             "recommendation-worker",
	}
}
