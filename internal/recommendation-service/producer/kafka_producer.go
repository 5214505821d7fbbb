package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/parlay-recommender-poc/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *kafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishRecommendation emite uma recomendação no tópico de recomendações.
// A chave é a categoria, pra manter o ranking de cada categoria na mesma partição.
func (p *KafkaPublisher) PublishRecommendation(ctx context.Context, e events.ParlayRecommended) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Category),
		Value: b,
	})
}
