package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Postgres implementa a persistência de apostas e histórico de séries
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório da mesa
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// CreateActive insere uma aposta aceita com status ACTIVE e devolve o betId
// (o mesmo id vai pra carteira como external_ref da reserva)
func (p *Postgres) CreateActive(ctx context.Context, b *Bet) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id,table_id,series_id,bettor,bet_type,amount_cents,status)
		VALUES ($1,$2,$3,$4,$5,$6,'ACTIVE')`,
		id, b.TableID, b.SeriesID, b.Bettor, b.BetType, b.AmountCents,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// MarkRemoved marca uma aposta devolvida ao apostador antes de resolver
func (p *Postgres) MarkRemoved(ctx context.Context, betID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE bets SET status='REMOVED', updated_at=NOW() WHERE id=$1`, betID)
	return err
}

// GetStatus retorna o status atual de uma aposta pelo betID
func (p *Postgres) GetStatus(ctx context.Context, betID string) (string, error) {
	var s string
	err := p.db.QueryRowContext(ctx, `SELECT status FROM bets WHERE id=$1`, betID).Scan(&s)
	return s, err
}

// InsertSeriesHistory grava o snapshot final de uma mão arquivada
func (p *Postgres) InsertSeriesHistory(ctx context.Context, h *SeriesHistory) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO series_history
			(table_id,series_id,shooter_id,points_made_count,max_consecutive_wins,
			 fire_mask,doubles_mask,small_tall_mask,rolls_seen,archived_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
		ON CONFLICT (table_id, series_id) DO NOTHING`,
		h.TableID, h.SeriesID, h.ShooterID, h.PointsMadeCount, h.MaxConsecutiveWins,
		h.FireMask, h.DoublesMask, h.SmallTallMask, h.RollsSeen,
	)
	return err
}
