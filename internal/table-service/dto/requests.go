package dto

type CreateTableRequest struct {
	TableID string `json:"tableId,omitempty"` // vazio = gerar uuid
}

type StartSeriesRequest struct {
	ShooterID string `json:"shooterId"`
}

type PlaceBetRequest struct {
	Bettor      string `json:"bettor"`
	BetType     int    `json:"bet_type"`
	AmountCents int64  `json:"amount_cents"`
}

type PlaceOddsRequest struct {
	Bettor      string `json:"bettor"`
	BaseBetType int    `json:"base_bet_type"` // pass | don't pass | come | don't come
	AmountCents int64  `json:"amount_cents"`
}

type RemoveBetRequest struct {
	Bettor  string `json:"bettor"`
	BetType int    `json:"bet_type"`
}
