package dto

import "github.com/radieske/parlay-recommender-poc/internal/recommender"

// RecommendationView enriquece a recomendação com o payout potencial do
// stake informado pelo cliente (query param stake_cents).
type RecommendationView struct {
	recommender.Recommendation
	PotentialPayoutCents *int64 `json:"potential_payout_cents,omitempty"`
}
