package dto

import "time"

// SettlementRow é uma liquidação já persistida pelo settlement-worker
type SettlementRow struct {
	BetID       string    `json:"betId"`
	SeriesID    uint64    `json:"seriesId"`
	RequestID   string    `json:"requestId"`
	Bettor      string    `json:"bettor"`
	BetType     uint8     `json:"betType"`
	AmountCents int64     `json:"amountCents"`
	PayoutCents int64     `json:"payoutCents"`
	Outcome     string    `json:"outcome"`
	Ts          time.Time `json:"ts"`
}

// SeriesHistoryRow resume uma série encerrada da mesa
type SeriesHistoryRow struct {
	SeriesID           uint64    `json:"seriesId"`
	ShooterID          string    `json:"shooterId"`
	PointsMadeCount    int       `json:"pointsMadeCount"`
	MaxConsecutiveWins int       `json:"maxConsecutiveWins"`
	RollsSeen          int       `json:"rollsSeen"`
	ArchivedAt         time.Time `json:"archivedAt"`
}
