package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/craps-table-poc/internal/engine"
	"github.com/radieske/craps-table-poc/internal/table-service/dto"
)

type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// FeedUpdate é o payload padrão pro WS do feed-service: o resultado de uma
// rolagem e o snapshot da mesa depois dela.
type FeedUpdate struct {
	TableID     string               `json:"tableId"`
	RequestID   string               `json:"request_id"`
	Die1        int                  `json:"die1"`
	Die2        int                  `json:"die2"`
	Outcome     string               `json:"outcome"`
	Settlements []dto.SettlementView `json:"settlements"`
	Snapshot    engine.TableSnapshot `json:"snapshot"`
}
