package recommender

import "sort"

// combinedOdds é o produto exato dos multiplicadores das pernas.
// Nenhum arredondamento antes da formatação de exibição.
func combinedOdds(legs []Opportunity) float64 {
	odds := 1.0
	for _, l := range legs {
		odds *= l.Odds
	}
	return odds
}

// correlationPenalty acumula o desconto de correlação do agrupamento:
// para cada esporte repetido, increment por repetição além da primeira.
// Resultados do mesmo domínio não são independentes; a multiplicação
// ingênua das probabilidades superestima a chance conjunta.
// O desconto acumulado não é limitado a < 1.
func correlationPenalty(legs []Opportunity, increment float64) float64 {
	counts := make(map[string]int, len(legs))
	for _, l := range legs {
		counts[l.Category]++
	}
	penalty := 0.0
	for _, n := range counts {
		if n > 1 {
			penalty += increment * float64(n-1)
		}
	}
	return penalty
}

// score monta a recomendação completa de um agrupamento já resolvido:
// odd combinada, probabilidade conjunta com haircut multiplicativo de
// correlação, EV percentual e string de exibição.
func score(legs []Opportunity, increment float64, typeLabel string) Recommendation {
	odds := combinedOdds(legs)
	penalty := correlationPenalty(legs, increment)

	prob := 1.0
	for _, l := range legs {
		prob *= l.Probability
	}
	prob *= 1.0 - penalty

	ev := (odds*prob - 1.0) * 100.0

	return Recommendation{
		Type:               typeLabel,
		Legs:               legs,
		CombinedOdds:       odds,
		AmericanOdds:       DecimalToAmerican(odds),
		WinProbability:     prob * 100.0,
		ExpectedValue:      ev,
		CorrelationPenalty: penalty,
	}
}

// meets verifica os critérios de aceitação da categoria.
func (t Thresholds) meets(r Recommendation) bool {
	return r.CombinedOdds >= t.MinOdds && r.WinProbability >= t.MinWinProb
}

// sortByExpectedValue ordena por EV decrescente (estável para empates).
func sortByExpectedValue(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ExpectedValue > recs[j].ExpectedValue
	})
}

// sortByWinProbability ordena por probabilidade combinada decrescente.
func sortByWinProbability(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].WinProbability > recs[j].WinProbability
	})
}

func truncate(recs []Recommendation, n int) []Recommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
