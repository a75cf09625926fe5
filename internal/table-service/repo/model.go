package repo

import "time"

// Bet é o registro persistido de uma aposta aceita na mesa. O id é o
// external_ref usado na reserva de escrow da carteira.
type Bet struct {
	ID          string
	TableID     string
	SeriesID    uint64
	Bettor      string
	BetType     int
	AmountCents int64
	Status      string // ACTIVE | SETTLED | REMOVED
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SeriesHistory é o snapshot de uma mão arquivada no seven-out (ou no
// encerramento administrativo).
type SeriesHistory struct {
	TableID            string
	SeriesID           uint64
	ShooterID          string
	PointsMadeCount    int
	MaxConsecutiveWins int
	FireMask           int
	DoublesMask        int
	SmallTallMask      int
	RollsSeen          int
	ArchivedAt         time.Time
}
