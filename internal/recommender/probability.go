package recommender

import "math"

// ResolveProbabilities devolve o subconjunto de oportunidades com odd usável,
// cada uma com probabilidade resolvida. Probabilidade informada (> 0) é usada
// como está; caso contrário estima-se min(teto, boost/odd). Registros com odd
// ausente, não numérica ou <= 1.0 são descartados individualmente, pois a
// probabilidade implícita seria indefinida ou negativa. A ordem do chamador é
// preservada; quem ordena é cada gerador.
func ResolveProbabilities(pool []Opportunity) []Opportunity {
	out := make([]Opportunity, 0, len(pool))
	for _, o := range pool {
		if math.IsNaN(o.Odds) || o.Odds <= 1.0 {
			continue
		}
		if math.IsNaN(o.Probability) || o.Probability <= 0 {
			p := probabilityBoost / o.Odds
			if p > probabilityCeiling {
				p = probabilityCeiling
			}
			o.Probability = p
		}
		out = append(out, o)
	}
	return out
}
