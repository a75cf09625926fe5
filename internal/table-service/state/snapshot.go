package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/craps-table-poc/internal/engine"
)

// Store espelha o snapshot de display de cada mesa no Redis. É o caminho de
// leitura do feed-service; o estado autoritativo continua sendo o engine.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(c *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: c, TTL: ttl}
}

func key(tableID string) string { return "table:snapshot:" + tableID }

// SetSnapshot grava o snapshot corrente da mesa com TTL
func (s *Store) SetSnapshot(ctx context.Context, snap engine.TableSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(snap.TableID), b, s.TTL).Err()
}

// GetSnapshot lê o snapshot de uma mesa; false quando não há registro
func (s *Store) GetSnapshot(ctx context.Context, tableID string, dst *engine.TableSnapshot) (bool, error) {
	b, err := s.Client.Get(ctx, key(tableID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}
