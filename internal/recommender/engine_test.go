package recommender_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/radieske/parlay-recommender-poc/internal/recommender"
)

func newTestEngine(cfg recommender.Config, seed int64) *recommender.Engine {
	return recommender.NewWithRand(cfg, zap.NewNop(), rand.New(rand.NewSource(seed)))
}

// Pool de exemplo: categorias variadas, odds usáveis, sem probabilidade
// informada (o motor estima).
func samplePool() []recommender.Opportunity {
	return []recommender.Opportunity{
		{ID: "1", Label: "Lakers", Category: "NBA", Odds: 2.0},
		{ID: "2", Label: "Celtics", Category: "NBA", Odds: 2.2},
		{ID: "3", Label: "Chiefs", Category: "NFL", Odds: 2.1},
		{ID: "4", Label: "Eagles", Category: "NFL", Odds: 2.4},
		{ID: "5", Label: "Yankees", Category: "MLB", Odds: 2.3},
		{ID: "6", Label: "Dodgers", Category: "MLB", Odds: 2.6},
		{ID: "7", Label: "Bruins", Category: "NHL", Odds: 2.05},
		{ID: "8", Label: "Oilers", Category: "NHL", Odds: 2.15},
	}
}

func TestTwoLegScenarioSameCategory(t *testing.T) {
	// Dois jogos da mesma categoria, odds 2.0 cada, sem probabilidade
	// informada: p = min(0.9, 2.5/2.0) = 0.9 pra cada perna.
	pool := []recommender.Opportunity{
		{ID: "a", Label: "Lakers", Category: "NBA", Odds: 2.0},
		{ID: "b", Label: "Celtics", Category: "NBA", Odds: 2.0},
	}

	e := newTestEngine(recommender.DefaultConfig(), 1)
	recs := e.TwoLegParlays(pool)

	if len(recs) != 1 {
		t.Fatalf("expected exactly 1 two-leg parlay, got %d", len(recs))
	}
	rec := recs[0]

	if rec.CombinedOdds != 4.0 {
		t.Errorf("combined odds = %v, want 4.0", rec.CombinedOdds)
	}
	if rec.AmericanOdds != "+300" {
		t.Errorf("american odds = %q, want +300", rec.AmericanOdds)
	}
	if math.Abs(rec.CorrelationPenalty-0.05) > 1e-12 {
		t.Errorf("correlation penalty = %v, want 0.05", rec.CorrelationPenalty)
	}
	// 0.9 × 0.9 × (1 − 0.05) = 0.7695
	if math.Abs(rec.WinProbability-76.95) > 1e-9 {
		t.Errorf("win probability = %v, want 76.95", rec.WinProbability)
	}
	// (4.0 × 0.7695 − 1) × 100 = 207.8
	if math.Abs(rec.ExpectedValue-207.8) > 1e-9 {
		t.Errorf("expected value = %v, want 207.8", rec.ExpectedValue)
	}
	if len(rec.Legs) != 2 || rec.Legs[0].Label == rec.Legs[1].Label {
		t.Errorf("unexpected legs: %+v", rec.Legs)
	}
}

func TestSingleOpportunityPool(t *testing.T) {
	pool := []recommender.Opportunity{
		{ID: "a", Label: "Lakers", Category: "NBA", Odds: 2.0},
	}
	e := newTestEngine(recommender.DefaultConfig(), 1)

	if got := e.TwoLegParlays(pool); len(got) != 0 {
		t.Errorf("two-leg with 1 opportunity: got %d recs, want 0", len(got))
	}
	if got := e.ThreeLegParlays(pool); len(got) != 0 {
		t.Errorf("three-leg with 1 opportunity: got %d recs, want 0", len(got))
	}
	if got := e.FavoriteParlays(pool); len(got) != 0 {
		t.Errorf("favorites with 1 opportunity: got %d recs, want 0", len(got))
	}

	// single bet avaliada independente: odds 2.0 >= 2.0 e 90% >= 80%
	singles := e.SingleBets(pool)
	if len(singles) != 1 {
		t.Fatalf("singles: got %d recs, want 1", len(singles))
	}
	if singles[0].Type != "single bet" || singles[0].CorrelationPenalty != 0 {
		t.Errorf("unexpected single recommendation: %+v", singles[0])
	}
}

func TestTwoLegSkipsSameLabel(t *testing.T) {
	// Mesmo participante em duas oportunidades: par contraditório, nunca sai.
	pool := []recommender.Opportunity{
		{ID: "a", Label: "Lakers", Category: "NBA", Odds: 2.0},
		{ID: "b", Label: "Lakers", Category: "NBA", Odds: 2.0},
		{ID: "c", Label: "Celtics", Category: "NBA", Odds: 2.0},
	}
	e := newTestEngine(recommender.DefaultConfig(), 1)

	for _, rec := range e.TwoLegParlays(pool) {
		if rec.Legs[0].Label == rec.Legs[1].Label {
			t.Fatalf("returned grouping shares a label: %+v", rec.Legs)
		}
	}
}

func TestTwoLegSortedByExpectedValue(t *testing.T) {
	e := newTestEngine(recommender.DefaultConfig(), 1)
	recs := e.TwoLegParlays(samplePool())

	if len(recs) == 0 {
		t.Fatal("expected two-leg recommendations from sample pool")
	}
	if len(recs) > 5 {
		t.Fatalf("list not truncated: %d entries", len(recs))
	}
	cfg := recommender.DefaultConfig()
	for i, rec := range recs {
		if rec.CombinedOdds < cfg.TwoLeg.MinOdds || rec.WinProbability < cfg.TwoLeg.MinWinProb {
			t.Errorf("rec %d fails thresholds: odds=%v prob=%v", i, rec.CombinedOdds, rec.WinProbability)
		}
		if i > 0 && recs[i-1].ExpectedValue < rec.ExpectedValue {
			t.Errorf("EV order broken at %d: %v < %v", i, recs[i-1].ExpectedValue, rec.ExpectedValue)
		}
	}
}

func TestThreeLegDeterministicWithSeed(t *testing.T) {
	pool := samplePool()

	a := newTestEngine(recommender.DefaultConfig(), 42).ThreeLegParlays(pool)
	b := newTestEngine(recommender.DefaultConfig(), 42).ThreeLegParlays(pool)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different results:\n%+v\n%+v", a, b)
	}
}

func TestThreeLegSortedAndBounded(t *testing.T) {
	e := newTestEngine(recommender.DefaultConfig(), 7)
	recs := e.ThreeLegParlays(samplePool())

	if len(recs) > 5 {
		t.Fatalf("list not truncated: %d entries", len(recs))
	}
	cfg := recommender.DefaultConfig()
	for i, rec := range recs {
		if len(rec.Legs) != 3 {
			t.Errorf("rec %d has %d legs, want 3", i, len(rec.Legs))
		}
		if rec.CombinedOdds < cfg.ThreeLeg.MinOdds || rec.WinProbability < cfg.ThreeLeg.MinWinProb {
			t.Errorf("rec %d fails thresholds: odds=%v prob=%v", i, rec.CombinedOdds, rec.WinProbability)
		}
		if i > 0 && recs[i-1].ExpectedValue < rec.ExpectedValue {
			t.Errorf("EV order broken at %d", i)
		}
	}
}

func TestFavoriteInsufficientPoolSkipsDraws(t *testing.T) {
	// 5 oportunidades pra um parlay de 6 pernas: vazio, sem nenhum sorteio.
	pool := []recommender.Opportunity{
		{ID: "1", Label: "A", Category: "NBA", Odds: 1.3},
		{ID: "2", Label: "B", Category: "NBA", Odds: 1.4},
		{ID: "3", Label: "C", Category: "NFL", Odds: 1.5},
		{ID: "4", Label: "D", Category: "MLB", Odds: 1.3},
		{ID: "5", Label: "E", Category: "NHL", Odds: 1.4},
	}

	const seed = 99
	rng := rand.New(rand.NewSource(seed))
	e := recommender.NewWithRand(recommender.DefaultConfig(), zap.NewNop(), rng)

	if got := e.FavoriteParlays(pool); len(got) != 0 {
		t.Fatalf("expected empty result, got %d recs", len(got))
	}

	// a fonte aleatória não pode ter sido consumida
	want := rand.New(rand.NewSource(seed)).Int63()
	if got := rng.Int63(); got != want {
		t.Error("random draws were attempted against an insufficient pool")
	}
}

func TestFavoriteDedupAndProbabilityOrder(t *testing.T) {
	cfg := recommender.DefaultConfig()
	cfg.Favorite.LegCount = 2
	cfg.Favorite.MinOdds = 2.0
	cfg.Favorite.MinWinProb = 40.0

	// probabilidades informadas pra forçar ordenação não trivial
	pool := []recommender.Opportunity{
		{ID: "1", Label: "A", Category: "NBA", Odds: 1.5, Probability: 0.85},
		{ID: "2", Label: "B", Category: "NFL", Odds: 1.6, Probability: 0.80},
		{ID: "3", Label: "C", Category: "MLB", Odds: 1.7, Probability: 0.75},
		{ID: "4", Label: "D", Category: "NHL", Odds: 1.8, Probability: 0.70},
		{ID: "5", Label: "E", Category: "MMA", Odds: 1.9, Probability: 0.65},
		{ID: "6", Label: "F", Category: "NBA", Odds: 2.0, Probability: 0.60},
	}

	e := newTestEngine(cfg, 3)
	recs := e.FavoriteParlays(pool)

	if len(recs) == 0 {
		t.Fatal("expected favorite parlays from pool")
	}
	if len(recs) > 5 {
		t.Fatalf("list not truncated: %d entries", len(recs))
	}

	seen := map[string]bool{}
	for i, rec := range recs {
		if i > 0 && recs[i-1].WinProbability < rec.WinProbability {
			t.Errorf("probability order broken at %d", i)
		}
		key := participantSet(rec)
		if seen[key] {
			t.Errorf("duplicate participant set returned: %s", key)
		}
		seen[key] = true
	}
}

func participantSet(rec recommender.Recommendation) string {
	labels := make([]string, len(rec.Legs))
	for i, l := range rec.Legs {
		labels[i] = l.Label
	}
	// conjunto, não sequência
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			if labels[j] < labels[i] {
				labels[i], labels[j] = labels[j], labels[i]
			}
		}
	}
	out := ""
	for _, l := range labels {
		out += l + "|"
	}
	return out
}

func TestFavoriteThresholdsTunable(t *testing.T) {
	cfg := recommender.DefaultConfig()
	cfg.Favorite.LegCount = 2
	cfg.Favorite.MinOdds = 1000.0 // insatisfazível

	e := newTestEngine(cfg, 3)
	if got := e.FavoriteParlays(samplePool()); len(got) != 0 {
		t.Errorf("expected empty result under unsatisfiable threshold, got %d", len(got))
	}
}

func TestRecommendReturnsAllCategories(t *testing.T) {
	e := newTestEngine(recommender.DefaultConfig(), 5)
	set := e.Recommend(samplePool())

	for _, category := range []string{
		recommender.CategorySingles,
		recommender.CategoryTwoLeg,
		recommender.CategoryThreeLeg,
		recommender.CategoryFavorites,
	} {
		recs, ok := set[category]
		if !ok {
			t.Fatalf("category %q missing from result set", category)
		}
		if recs == nil {
			t.Errorf("category %q is nil, want empty list", category)
		}
		if len(recs) > 5 {
			t.Errorf("category %q not truncated: %d entries", category, len(recs))
		}
	}
}

func TestRecommendProbabilitiesStayInRange(t *testing.T) {
	// Propriedade: com as janelas e incrementos atuais o haircut nunca
	// inverte o sinal da probabilidade. O modelo não clampa o desconto,
	// então este teste vigia a combinação de parâmetros.
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		pool := make([]recommender.Opportunity, 30)
		categories := []string{"NBA", "NFL", "MLB"}
		for i := range pool {
			pool[i] = recommender.Opportunity{
				ID:       string(rune('a' + i)),
				Label:    string(rune('A' + i)),
				Category: categories[i%len(categories)],
				Odds:     1.1 + rng.Float64()*3.0,
			}
		}

		e := newTestEngine(recommender.DefaultConfig(), seed)
		for category, recs := range e.Recommend(pool) {
			for _, rec := range recs {
				if rec.WinProbability < 0 || rec.WinProbability > 100 {
					t.Errorf("seed %d category %s: probability %v outside [0,100]",
						seed, category, rec.WinProbability)
				}
			}
		}
	}
}

type stubSource struct {
	pool []recommender.Opportunity
	err  error
}

func (s *stubSource) ListOpen(_ context.Context, _ int) ([]recommender.Opportunity, error) {
	return s.pool, s.err
}

func TestRecommendFromSourceDegradesToEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	e := recommender.NewWithRand(recommender.DefaultConfig(), log, rand.New(rand.NewSource(1)))
	src := &stubSource{err: errors.New("connection refused")}

	set := e.RecommendFromSource(context.Background(), src, 50)

	if len(set) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(set))
	}
	for category, recs := range set {
		if len(recs) != 0 {
			t.Errorf("category %q not empty after source failure", category)
		}
	}

	// diagnóstico estruturado, não só texto no console
	entries := logs.FilterMessage("opportunity source failed, returning empty result set").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 diagnostic entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["limit"] != int64(50) {
		t.Errorf("diagnostic limit field = %v, want 50", fields["limit"])
	}
}

func TestRecommendFromSourceHappyPath(t *testing.T) {
	e := newTestEngine(recommender.DefaultConfig(), 1)
	src := &stubSource{pool: samplePool()}

	set := e.RecommendFromSource(context.Background(), src, 50)
	if len(set[recommender.CategoryTwoLeg]) == 0 {
		t.Error("expected two-leg recommendations from stub source")
	}
}

func TestEngineDoesNotMutateCallerPool(t *testing.T) {
	pool := samplePool()
	e := newTestEngine(recommender.DefaultConfig(), 1)
	_ = e.Recommend(pool)

	for i, o := range pool {
		if o.Probability != 0 {
			t.Errorf("pool[%d] mutated: probability = %v", i, o.Probability)
		}
	}
}
