package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/craps-table-poc/internal/feed-service/dto"
)

type ReadRepo struct {
	DB *sql.DB
}

// ListSettlements devolve as liquidações mais recentes de uma mesa
func (r *ReadRepo) ListSettlements(ctx context.Context, tableID string, limit int) ([]dto.SettlementRow, error) {
	const q = `
		SELECT bet_id, series_id, request_id, bettor, bet_type, amount_cents, payout_cents, outcome, created_at
		FROM settlements
		WHERE table_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, q, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.SettlementRow
	for rows.Next() {
		var s dto.SettlementRow
		if err := rows.Scan(&s.BetID, &s.SeriesID, &s.RequestID, &s.Bettor, &s.BetType,
			&s.AmountCents, &s.PayoutCents, &s.Outcome, &s.Ts); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListSeriesHistory devolve as mãos arquivadas de uma mesa, mais recente primeiro
func (r *ReadRepo) ListSeriesHistory(ctx context.Context, tableID string) ([]dto.SeriesHistoryRow, error) {
	const q = `
		SELECT series_id, shooter_id, points_made_count, max_consecutive_wins, rolls_seen, archived_at
		FROM series_history
		WHERE table_id = $1
		ORDER BY series_id DESC;
	`
	rows, err := r.DB.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.SeriesHistoryRow
	for rows.Next() {
		var h dto.SeriesHistoryRow
		if err := rows.Scan(&h.SeriesID, &h.ShooterID, &h.PointsMadeCount,
			&h.MaxConsecutiveWins, &h.RollsSeen, &h.ArchivedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
