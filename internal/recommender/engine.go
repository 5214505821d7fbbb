package recommender

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Engine gera recomendações de apostas e parlays a partir de um pool de
// oportunidades abertas. Sem estado entre chamadas: todo resultado é
// recomputado a cada invocação.
type Engine struct {
	cfg Config
	log *zap.Logger
	rng *rand.Rand
}

// New cria o motor com fonte aleatória semeada pelo relógio.
func New(cfg Config, log *zap.Logger) *Engine {
	return NewWithRand(cfg, log, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand permite injetar a fonte aleatória (testes determinísticos).
func NewWithRand(cfg Config, log *zap.Logger, rng *rand.Rand) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Favorite.LegCount <= 0 {
		cfg.Favorite.LegCount = DefaultConfig().Favorite.LegCount
	}
	return &Engine{cfg: cfg, log: log, rng: rng}
}

// SingleBets avalia cada oportunidade isoladamente contra os critérios de
// aposta simples. Não há agrupamento nem termo de correlação.
func (e *Engine) SingleBets(pool []Opportunity) []Recommendation {
	recs := make([]Recommendation, 0)
	for _, o := range ResolveProbabilities(pool) {
		r := score([]Opportunity{o}, 0, "single bet")
		if e.cfg.Singles.meets(r) {
			recs = append(recs, r)
		}
	}
	sortByExpectedValue(recs)
	return truncate(recs, maxResults)
}

// TwoLegParlays enumera exaustivamente todos os pares i<j dentro da janela
// de candidatos, pulando pares com o mesmo participante.
func (e *Engine) TwoLegParlays(pool []Opportunity) []Recommendation {
	window := topByProbability(ResolveProbabilities(pool), pairWindow)

	recs := make([]Recommendation, 0)
	for i := 0; i < len(window); i++ {
		for j := i + 1; j < len(window); j++ {
			if window[i].Label == window[j].Label {
				continue
			}
			r := score([]Opportunity{window[i], window[j]}, pairCorrelation, "2-leg parlay")
			if e.cfg.TwoLeg.meets(r) {
				recs = append(recs, r)
			}
		}
	}
	sortByExpectedValue(recs)
	return truncate(recs, maxResults)
}

// ThreeLegParlays sorteia até sampleAttempts trincas da janela de candidatos.
// Sorteios repetidos não são deduplicados na geração.
func (e *Engine) ThreeLegParlays(pool []Opportunity) []Recommendation {
	window := topByProbability(ResolveProbabilities(pool), comboWindow)

	recs := make([]Recommendation, 0)
	if len(window) < 3 {
		return recs
	}
	for a := 0; a < sampleAttempts; a++ {
		legs := e.sample(window, 3)
		if hasDuplicateLabel(legs) {
			continue
		}
		r := score(legs, tripleCorrelation, "3-leg parlay")
		if e.cfg.ThreeLeg.meets(r) {
			recs = append(recs, r)
		}
	}
	sortByExpectedValue(recs)
	return truncate(recs, maxResults)
}

// FavoriteParlays sorteia até sampleAttempts combinações de LegCount pernas
// entre os candidatos mais prováveis. Ranqueia por probabilidade (não por EV)
// e deduplica pelo conjunto exato de participantes, preservando a ordem do
// primeiro visto. Pool menor que o número de pernas devolve vazio sem sorteio.
func (e *Engine) FavoriteParlays(pool []Opportunity) []Recommendation {
	legCount := e.cfg.Favorite.LegCount
	window := topByProbability(ResolveProbabilities(pool), comboWindow)

	recs := make([]Recommendation, 0)
	if len(window) < legCount {
		return recs
	}

	label := fmt.Sprintf("%d-leg favorite parlay", legCount)
	for a := 0; a < sampleAttempts; a++ {
		legs := e.sample(window, legCount)
		if hasDuplicateLabel(legs) {
			continue
		}
		r := score(legs, favoriteCorrelation, label)
		if e.cfg.Favorite.meets(r) {
			recs = append(recs, r)
		}
	}
	sortByWinProbability(recs)
	return truncate(dedupeByParticipants(recs), maxResults)
}

// Recommend roda os quatro geradores e devolve uma lista por categoria.
// Cada gerador é isolado: pane em um não derruba os demais.
func (e *Engine) Recommend(pool []Opportunity) map[string][]Recommendation {
	return map[string][]Recommendation{
		CategorySingles:   e.generate(CategorySingles, pool, e.SingleBets),
		CategoryTwoLeg:    e.generate(CategoryTwoLeg, pool, e.TwoLegParlays),
		CategoryThreeLeg:  e.generate(CategoryThreeLeg, pool, e.ThreeLegParlays),
		CategoryFavorites: e.generate(CategoryFavorites, pool, e.FavoriteParlays),
	}
}

// RecommendFromSource busca o pool no acessor externo e recomenda. Falha do
// acessor degrada para listas vazias em todas as categorias, com diagnóstico
// estruturado no log; o erro nunca propaga.
func (e *Engine) RecommendFromSource(ctx context.Context, src Source, limit int) map[string][]Recommendation {
	pool, err := src.ListOpen(ctx, limit)
	if err != nil {
		e.log.Warn("opportunity source failed, returning empty result set",
			zap.Error(err),
			zap.Int("limit", limit),
		)
		return EmptyResultSet()
	}
	return e.Recommend(pool)
}

// EmptyResultSet devolve o mapa de categorias com listas vazias.
func EmptyResultSet() map[string][]Recommendation {
	return map[string][]Recommendation{
		CategorySingles:   {},
		CategoryTwoLeg:    {},
		CategoryThreeLeg:  {},
		CategoryFavorites: {},
	}
}

// generate protege a agregação contra pane de um gerador individual.
func (e *Engine) generate(category string, pool []Opportunity, fn func([]Opportunity) []Recommendation) (recs []Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("recommendation generator panicked",
				zap.String("category", category),
				zap.Any("panic", r),
			)
			recs = []Recommendation{}
		}
	}()
	recs = fn(pool)
	if recs == nil {
		recs = []Recommendation{}
	}
	return recs
}

// sample sorteia k elementos distintos da janela, sem reposição.
func (e *Engine) sample(window []Opportunity, k int) []Opportunity {
	idx := e.rng.Perm(len(window))[:k]
	legs := make([]Opportunity, k)
	for i, n := range idx {
		legs[i] = window[n]
	}
	return legs
}

// topByProbability ordena o pool resolvido por probabilidade decrescente e
// restringe à janela de candidatos.
func topByProbability(resolved []Opportunity, limit int) []Opportunity {
	window := make([]Opportunity, len(resolved))
	copy(window, resolved)
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Probability > window[j].Probability
	})
	if len(window) > limit {
		window = window[:limit]
	}
	return window
}

// hasDuplicateLabel detecta pernas com o mesmo participante, proxy de
// "mesmo resultado real", que tornaria o agrupamento contraditório.
func hasDuplicateLabel(legs []Opportunity) bool {
	seen := make(map[string]struct{}, len(legs))
	for _, l := range legs {
		if _, ok := seen[l.Label]; ok {
			return true
		}
		seen[l.Label] = struct{}{}
	}
	return false
}

// dedupeByParticipants descarta agrupamentos com o mesmo conjunto de
// participantes, independente da ordem interna ou do sorteio de origem.
func dedupeByParticipants(recs []Recommendation) []Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		key := participantsKey(r.Legs)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func participantsKey(legs []Opportunity) string {
	labels := make([]string, len(legs))
	for i, l := range legs {
		labels[i] = l.Label
	}
	sort.Strings(labels)
	key := ""
	for _, l := range labels {
		key += l + "|"
	}
	return key
}
