package recommender

import "context"

// Categorias do result set, uma lista por chave.
const (
	CategorySingles   = "single_bets"
	CategoryTwoLeg    = "two_leg_parlays"
	CategoryThreeLeg  = "three_leg_parlays"
	CategoryFavorites = "favorite_parlays"
)

// Opportunity é uma oportunidade de aposta aberta (registro de entrada).
// Odds é o multiplicador decimal de payout (2.0 dobra o stake).
// Probability é opcional: <= 0 significa não informada e o motor estima.
type Opportunity struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`    // nome do time/participante
	Category    string  `json:"category"` // esporte
	Odds        float64 `json:"odds"`
	Probability float64 `json:"probability,omitempty"` // 0..1
}

// Recommendation é um agrupamento pontuado e aprovado nos critérios da categoria.
type Recommendation struct {
	Type               string        `json:"type"` // "single bet", "2-leg parlay", ...
	Legs               []Opportunity `json:"legs"`
	CombinedOdds       float64       `json:"combined_odds"`
	AmericanOdds       string        `json:"american_odds"`
	WinProbability     float64       `json:"win_probability"` // percentual (0-100)
	ExpectedValue      float64       `json:"expected_value"`  // retorno % esperado sobre stake unitário
	CorrelationPenalty float64       `json:"correlation_penalty"`
}

// Source abstrai o acessor externo de oportunidades abertas.
// Falhas do acessor são degradadas para result set vazio em RecommendFromSource.
type Source interface {
	ListOpen(ctx context.Context, limit int) ([]Opportunity, error)
}
