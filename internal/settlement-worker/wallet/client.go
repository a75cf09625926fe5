package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client cobre só as operações que o worker usa: Commit, Refund e Payout.
// O wallet-service é idempotente pela chave (usuário, external_ref), então
// repetir uma chamada após timeout é seguro.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Commit efetiva o débito da stake (aposta perdida).
func (c *Client) Commit(ctx context.Context, bettor, externalRef string) error {
	return c.post(ctx, "/wallet/commit", map[string]any{
		"userId":       bettor,
		"external_ref": externalRef,
	})
}

// Refund devolve a stake (push).
func (c *Client) Refund(ctx context.Context, bettor, externalRef string) error {
	return c.post(ctx, "/wallet/refund", map[string]any{
		"userId":       bettor,
		"external_ref": externalRef,
	})
}

// Payout credita stake + ganhos e fecha a reserva (aposta ganha).
func (c *Client) Payout(ctx context.Context, bettor, externalRef string, payoutCents int64) error {
	return c.post(ctx, "/wallet/payout", map[string]any{
		"userId":       bettor,
		"external_ref": externalRef,
		"payout_cents": payoutCents,
	})
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) error {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("wallet %s http %d", path, res.StatusCode)
	}
	return nil
}
