package dto

type CreateTableResponse struct {
	TableID string `json:"tableId"`
}

type StartSeriesResponse struct {
	TableID   string `json:"tableId"`
	SeriesID  uint64 `json:"series_id"`
	ShooterID string `json:"shooterId"`
}

type PlaceBetResponse struct {
	BetID   string `json:"betId"`
	Status  string `json:"status"` // ACTIVE
	BetType int    `json:"bet_type"`
}

// SettlementView é a forma pública de um resultado de liquidação.
type SettlementView struct {
	BetID       string `json:"betId,omitempty"`
	Bettor      string `json:"bettor"`
	BetType     int    `json:"bet_type"`
	AmountCents int64  `json:"amount_cents"`
	PayoutCents int64  `json:"payout_cents"`
	Outcome     string `json:"outcome"`
}

type RollRequestedResponse struct {
	RequestID string `json:"request_id"`
	TableID   string `json:"tableId"`
	SeriesID  uint64 `json:"series_id"`
}

type ActiveBetView struct {
	BetID         string `json:"betId,omitempty"`
	Bettor        string `json:"bettor"`
	BetType       int    `json:"bet_type"`
	AmountCents   int64  `json:"amount_cents"`
	PointSnapshot int    `json:"point_snapshot,omitempty"`
}

type SeriesHistoryView struct {
	SeriesID           uint64 `json:"series_id"`
	ShooterID          string `json:"shooterId"`
	PointsMadeCount    int    `json:"points_made_count"`
	MaxConsecutiveWins int    `json:"max_consecutive_wins"`
	RollsSeen          int    `json:"rolls_seen"`
}
