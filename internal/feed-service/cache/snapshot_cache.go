package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyTable(tableID string) string { return "table:snapshot:" + tableID }

// GetSnapshot devolve o snapshot bruto (JSON) escrito pelo table-service.
// Retorna false quando a mesa não tem snapshot publicado.
func (c *Cache) GetSnapshot(ctx context.Context, tableID string) ([]byte, bool, error) {
	b, err := c.R.Get(ctx, keyTable(tableID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}
