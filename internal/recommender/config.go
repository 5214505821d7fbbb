package recommender

// Limites fixos de busca: janelas de candidatos, orçamento de sorteios e
// tamanho máximo de cada lista. Enumeração exaustiva acima dessas janelas
// custa caro e agrega pouco à qualidade das recomendações.
const (
	pairWindow     = 20 // janela de candidatos para parlays de 2 pernas
	comboWindow    = 15 // janela para 3 pernas e favoritos
	sampleAttempts = 10 // sorteios aleatórios por categoria
	maxResults     = 5  // tamanho máximo de cada lista de recomendações

	// Estimativa de probabilidade a partir da odd (ver ResolveProbabilities):
	// a probabilidade implícita 1/odd é inflada por um fator fixo e limitada
	// a um teto: nunca afirmamos confiança >= 90%.
	probabilityBoost   = 2.5
	probabilityCeiling = 0.9

	// Incremento de penalidade de correlação por repetição de esporte
	// dentro do agrupamento, um valor por gerador.
	pairCorrelation     = 0.05
	tripleCorrelation   = 0.02
	favoriteCorrelation = 0.03
)

// Thresholds são os critérios de aceitação de uma categoria.
type Thresholds struct {
	MinOdds    float64 // odd decimal combinada mínima
	MinWinProb float64 // probabilidade combinada mínima (%)
}

// FavoriteConfig parametriza o parlay de favoritos: número de pernas e
// critérios ajustáveis pelo chamador.
type FavoriteConfig struct {
	Thresholds
	LegCount int
}

// Config reúne os critérios de aceitação de todas as categorias.
type Config struct {
	Singles  Thresholds
	TwoLeg   Thresholds
	ThreeLeg Thresholds
	Favorite FavoriteConfig
}

// DefaultConfig retorna os critérios calibrados empiricamente. Os favoritos
// usam 3.0/53%: um par mais agressivo (ex: 6.0 e 70%) é insatisfazível sob o
// modelo de estimativa, já que odds maiores implicam probabilidades menores.
func DefaultConfig() Config {
	return Config{
		Singles:  Thresholds{MinOdds: 2.0, MinWinProb: 80.0},
		TwoLeg:   Thresholds{MinOdds: 4.0, MinWinProb: 60.0},
		ThreeLeg: Thresholds{MinOdds: 5.0, MinWinProb: 60.0},
		Favorite: FavoriteConfig{
			Thresholds: Thresholds{MinOdds: 3.0, MinWinProb: 53.0},
			LegCount:   6,
		},
	}
}
