package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/parlay-recommender-poc/internal/recommender"
)

// WriteRepo insere/atualiza oportunidades. Usado pelo opportunity-seeder.
type WriteRepo struct {
	DB *sql.DB
}

func NewWriteRepo(db *sql.DB) *WriteRepo { return &WriteRepo{DB: db} }

// EnsureSchema cria a tabela de oportunidades se ainda não existir.
func (r *WriteRepo) EnsureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS opportunities (
		  id          TEXT PRIMARY KEY,
		  label       TEXT NOT NULL,
		  category    TEXT NOT NULL,
		  odds        DOUBLE PRECISION NOT NULL,
		  probability DOUBLE PRECISION,
		  open        BOOLEAN NOT NULL DEFAULT TRUE,
		  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// UpsertOpportunity insere ou atualiza uma oportunidade por id.
// ON CONFLICT mantém a operação idempotente entre execuções do seeder.
func (r *WriteRepo) UpsertOpportunity(ctx context.Context, o recommender.Opportunity) error {
	const q = `
		INSERT INTO opportunities (id, label, category, odds, probability, open)
		VALUES ($1,$2,$3,$4,$5,TRUE)
		ON CONFLICT (id) DO UPDATE SET
		  label       = EXCLUDED.label,
		  category    = EXCLUDED.category,
		  odds        = EXCLUDED.odds,
		  probability = EXCLUDED.probability,
		  open        = TRUE
	`
	var prob sql.NullFloat64
	if o.Probability > 0 {
		prob = sql.NullFloat64{Float64: o.Probability, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, q, o.ID, o.Label, o.Category, o.Odds, prob)
	return err
}
