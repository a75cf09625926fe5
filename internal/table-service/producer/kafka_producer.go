package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do table-service: pedidos de rolagem pro
// dice-simulator e liquidações pro settlement-worker.
type KafkaPublisher struct {
	RollWriter    *kafka.Writer
	SettledWriter *kafka.Writer
}

func NewKafkaPublisher(rollWriter, settledWriter *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{RollWriter: rollWriter, SettledWriter: settledWriter}
}

func (p *KafkaPublisher) PublishRollRequested(ctx context.Context, e events.RollRequested) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.RollWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.RequestID), Value: b})
}

// PublishBetSettled usa o betId como chave: reentregas do mesmo resultado
// caem na mesma partição e a idempotência da carteira absorve o resto.
func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	b, _ := json.Marshal(e)
	return p.SettledWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}
