package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// das liquidações e repassa cada mensagem aos clientes WebSocket da mesa
//
// Funcionamento:
// - Recebe o JSON publicado pelo table-service após cada rolagem
// - Extrai o tableId pra rotear
// - Chama hub.Broadcast com o payload original, sem re-serializar
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var route struct {
					TableID string `json:"tableId"`
				}
				if err := json.Unmarshal([]byte(msg.Payload), &route); err != nil || route.TableID == "" {
					log.Warn("feed subscriber: unroutable message", zap.Error(err))
					continue
				}
				hub.Broadcast(route.TableID, []byte(msg.Payload))
			}
		}
	}()
}
