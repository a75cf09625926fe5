package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	walletdto "github.com/radieske/craps-table-poc/internal/table-service/wallet/dto"
)

// Client fala com o wallet-service. Todas as operações são idempotentes no
// servidor pela chave (usuário, external_ref), então repetir uma chamada após
// timeout é seguro.
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

// Reserve bloqueia a stake antes da aposta entrar no livro (external_ref = betId).
func (c *Client) Reserve(ctx context.Context, bettor string, cents int64, externalRef string) (string, error) {
	body, _ := json.Marshal(walletdto.ReserveRequest{UserID: bettor, AmountCents: cents, ExternalRef: externalRef})
	res, err := c.post(ctx, "/wallet/reserve", body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("wallet reserve http %d", res.StatusCode)
	}
	var out walletdto.ReservationResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ReservationID, nil
}

// Commit efetiva o débito da stake (aposta perdida).
func (c *Client) Commit(ctx context.Context, bettor, externalRef string) error {
	body, _ := json.Marshal(walletdto.CommitRequest{UserID: bettor, ExternalRef: externalRef})
	return c.postOK(ctx, "/wallet/commit", body)
}

// Refund devolve a stake (push ou remoção).
func (c *Client) Refund(ctx context.Context, bettor, externalRef string) error {
	body, _ := json.Marshal(walletdto.RefundRequest{UserID: bettor, ExternalRef: externalRef})
	return c.postOK(ctx, "/wallet/refund", body)
}

// Payout credita stake + ganhos e fecha a reserva (aposta ganha).
func (c *Client) Payout(ctx context.Context, bettor, externalRef string, payoutCents int64) error {
	body, _ := json.Marshal(walletdto.PayoutRequest{UserID: bettor, ExternalRef: externalRef, PayoutCents: payoutCents})
	return c.postOK(ctx, "/wallet/payout", body)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.HTTP.Do(req)
}

func (c *Client) postOK(ctx context.Context, path string, body []byte) error {
	res, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("wallet %s http %d", path, res.StatusCode)
	}
	return nil
}
