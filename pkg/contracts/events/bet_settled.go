package events

import "time"

// Resultado da liquidação de uma aposta, publicado pelo table-service após
// cada rolagem e consumido pelo settlement-worker para mover o dinheiro.
// Payout são os ganhos (sem a stake): WON devolve stake + payout,
// PUSHED devolve só a stake, LOST não devolve nada.
type BetSettled struct {
	BetID       string    `json:"bet_id"` // external_ref usado no escrow da carteira
	TableID     string    `json:"table_id"`
	SeriesID    uint64    `json:"series_id"`
	RequestID   string    `json:"request_id,omitempty"` // vazio em remoções/encerramento administrativo
	Bettor      string    `json:"bettor"`
	BetType     int       `json:"bet_type"`
	AmountCents int64     `json:"amount_cents"`
	PayoutCents int64     `json:"payout_cents"`
	Outcome     string    `json:"outcome"` // "WON" | "LOST" | "PUSHED"
	Ts          time.Time `json:"ts"`
}
