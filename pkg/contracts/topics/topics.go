package topics

const (
	// Recomendações de parlays geradas pelo worker
	ParlayRecommendations = "parlay_recommendations"

	// DLQ
	ParlayRecommendationsDLQ = "parlay_recommendations_dlq"
)
