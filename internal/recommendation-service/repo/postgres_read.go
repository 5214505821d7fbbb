package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/parlay-recommender-poc/internal/recommender"
)

// ReadRepo é o acessor de oportunidades abertas no Postgres.
// Satisfaz recommender.Source.
type ReadRepo struct {
	DB *sql.DB
}

func NewReadRepo(db *sql.DB) *ReadRepo { return &ReadRepo{DB: db} }

// ListOpen retorna até limit oportunidades abertas, mais recentes primeiro.
// Probability NULL vira 0 (não informada); o motor estima a partir da odd.
func (r *ReadRepo) ListOpen(ctx context.Context, limit int) ([]recommender.Opportunity, error) {
	const q = `
		SELECT id, label, category, odds, COALESCE(probability, 0)
		FROM opportunities
		WHERE open = TRUE
		ORDER BY created_at DESC, id
		LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []recommender.Opportunity
	for rows.Next() {
		var o recommender.Opportunity
		if err := rows.Scan(&o.ID, &o.Label, &o.Category, &o.Odds, &o.Probability); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
