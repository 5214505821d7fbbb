package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/parlay-recommender-poc/internal/recommendation-service/repo"
	"github.com/radieske/parlay-recommender-poc/internal/recommender"
	"github.com/radieske/parlay-recommender-poc/internal/shared/config"
	"github.com/radieske/parlay-recommender-poc/internal/shared/db"
	"github.com/radieske/parlay-recommender-poc/internal/shared/logger"
)

// Entrada do catálogo fixo: odds cotadas no formato americano, como vêm das
// casas de aposta, convertidas pra decimal na carga.
type seedEntry struct {
	id       string
	label    string
	category string
	american string
}

// Catálogo fixo de oportunidades de exemplo pra rodar a plataforma localmente
var seedCatalog = []seedEntry{
	{"NBA_001", "Lakers", "NBA", "-150"},
	{"NBA_002", "Celtics", "NBA", "+120"},
	{"NBA_003", "Warriors", "NBA", "-200"},
	{"NBA_004", "Bucks", "NBA", "+105"},
	{"NFL_001", "Chiefs", "NFL", "-175"},
	{"NFL_002", "Eagles", "NFL", "+140"},
	{"NFL_003", "49ers", "NFL", "-120"},
	{"MLB_001", "Yankees", "MLB", "-130"},
	{"MLB_002", "Dodgers", "MLB", "-250"},
	{"MLB_003", "Braves", "MLB", "+110"},
	{"NHL_001", "Maple Leafs", "NHL", "-110"},
	{"NHL_002", "Bruins", "NHL", "+130"},
	{"NHL_003", "Oilers", "NHL", "-145"},
	{"MMA_001", "Fighter Silva", "MMA", "-300"},
	{"MMA_002", "Fighter Souza", "MMA", "+160"},
	{"MMA_003", "Fighter Lima", "MMA", "-115"},
}

func main() {
	cfg := config.Load()
	log, err := logger.New("opportunity-seeder", cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w := repo.NewWriteRepo(pg)
	if err := w.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	seeded := 0
	for _, e := range seedCatalog {
		odds, err := recommender.AmericanToDecimal(e.american)
		if err != nil {
			log.Warn("skipping entry with bad odds",
				zap.String("id", e.id),
				zap.String("american", e.american),
				zap.Error(err),
			)
			continue
		}

		op := recommender.Opportunity{
			ID:       e.id,
			Label:    e.label,
			Category: e.category,
			Odds:     odds,
		}
		if err := w.UpsertOpportunity(ctx, op); err != nil {
			log.Fatal("upsert opportunity", zap.String("id", e.id), zap.Error(err))
		}
		seeded++
	}

	log.Info("seed done", zap.Int("opportunities", seeded))
}
