package events

import "time"

// Perna de uma recomendação publicada no tópico "parlay_recommendations".
type RecommendedLeg struct {
	OpportunityID string  `json:"opportunity_id"`
	Label         string  `json:"label"`    // nome do time/participante
	Category      string  `json:"category"` // esporte
	Odds          float64 `json:"odds"`     // multiplicador decimal da perna
	Probability   float64 `json:"probability"`
}

// Evento emitido pelo recommendation-worker a cada recomendação gerada.
type ParlayRecommended struct {
	Category           string           `json:"category"` // "single_bets" | "two_leg_parlays" | ...
	Rank               int              `json:"rank"`     // posição no ranking da categoria (1..5)
	Legs               []RecommendedLeg `json:"legs"`
	CombinedOdds       float64          `json:"combined_odds"`
	AmericanOdds       string           `json:"american_odds"`
	WinProbability     float64          `json:"win_probability"` // percentual (0-100)
	ExpectedValue      float64          `json:"expected_value"`  // percentual sobre stake unitário
	CorrelationPenalty float64          `json:"correlation_penalty"`
	GeneratedAt        time.Time        `json:"generated_at"`
	Source             string           `json:"source"` // "recommendation-worker"
	TsUnixMs           int64            `json:"ts_unix_ms"`
}
