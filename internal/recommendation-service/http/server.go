package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/parlay-recommender-poc/internal/recommendation-service/cache"
	"github.com/radieske/parlay-recommender-poc/internal/recommendation-service/dto"
	"github.com/radieske/parlay-recommender-poc/internal/recommender"
)

// API expõe os endpoints REST de recomendações de parlays.
// O motor recomputa a cada requisição; o Cache (opcional) segura o result set
// pelo TTL configurado pra não martelar o Postgres.
type API struct {
	Log       *zap.Logger
	Engine    *recommender.Engine
	Source    recommender.Source // acessor de oportunidades abertas (Postgres)
	Cache     *cache.Cache       // nil = sem cache (testes)
	PoolLimit int                // quantas oportunidades buscar por recomputação
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/recommendations", a.getRecommendations)           // result set completo
	r.Get("/v1/recommendations/{category}", a.getCategory)       // uma categoria
	r.Get("/v1/opportunities", a.listOpportunities)              // pool bruto
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// resultSet devolve o result set corrente, preferencialmente do cache.
// Falha do acessor já degrada pra listas vazias dentro do motor; aqui é
// sempre 200 com o mapa completo de categorias.
func (a *API) resultSet(r *http.Request) map[string][]recommender.Recommendation {
	if a.Cache != nil {
		var cached map[string][]recommender.Recommendation
		if ok, _ := a.Cache.GetLatest(r.Context(), &cached); ok {
			return cached
		}
	}

	set := a.Engine.RecommendFromSource(r.Context(), a.Source, a.PoolLimit)

	if a.Cache != nil {
		_ = a.Cache.SetLatest(r.Context(), set)
	}
	return set
}

// getRecommendations retorna as listas ranqueadas de todas as categorias
func (a *API) getRecommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.resultSet(r))
}

// getCategory retorna uma categoria; aceita ?stake_cents= pra calcular o
// payout potencial de cada recomendação
func (a *API) getCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	set := a.resultSet(r)
	recs, ok := set[category]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown category"})
		return
	}

	stakeCents, _ := strconv.ParseInt(r.URL.Query().Get("stake_cents"), 10, 64)

	views := make([]dto.RecommendationView, 0, len(recs))
	for _, rec := range recs {
		v := dto.RecommendationView{Recommendation: rec}
		if stakeCents > 0 {
			payout := recommender.PotentialPayoutCents(stakeCents, rec.CombinedOdds)
			v.PotentialPayoutCents = &payout
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

// listOpportunities retorna o pool bruto de oportunidades abertas
func (a *API) listOpportunities(w http.ResponseWriter, r *http.Request) {
	limit := a.PoolLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	pool, err := a.Source.ListOpen(r.Context(), limit)
	if err != nil {
		a.Log.Warn("list opportunities failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if pool == nil {
		pool = []recommender.Opportunity{}
	}
	writeJSON(w, http.StatusOK, pool)
}
