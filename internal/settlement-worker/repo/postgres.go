package repo

import (
	"context"
	"database/sql"
	"time"
)

// Postgres persiste o desfecho das liquidações processadas pelo worker
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Settlement é o registro de uma aposta resolvida.
type Settlement struct {
	BetID       string
	TableID     string
	SeriesID    uint64
	RequestID   string
	Bettor      string
	BetType     int
	AmountCents int64
	PayoutCents int64
	Outcome     string
	Ts          time.Time
}

// MarkSettled fecha o registro da aposta; só transiciona a partir de ACTIVE
// (remoções já marcadas como REMOVED ficam como estão)
func (p *Postgres) MarkSettled(ctx context.Context, betID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE bets SET status='SETTLED', updated_at=NOW() WHERE id=$1 AND status='ACTIVE'`, betID)
	return err
}

// InsertSettlement grava o resultado; reentregas do mesmo betId não duplicam
func (p *Postgres) InsertSettlement(ctx context.Context, s *Settlement) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO settlements
			(bet_id,table_id,series_id,request_id,bettor,bet_type,amount_cents,payout_cents,outcome,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (bet_id) DO NOTHING`,
		s.BetID, s.TableID, s.SeriesID, s.RequestID, s.Bettor, s.BetType,
		s.AmountCents, s.PayoutCents, s.Outcome, s.Ts,
	)
	return err
}
