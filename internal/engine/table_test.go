package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedTable(t *testing.T) *Table {
	t.Helper()
	tb := NewTable("t-1")
	_, err := tb.StartNewSeries("shooter-1")
	require.NoError(t, err)
	return tb
}

func roll(t *testing.T, tb *Table, d1, d2 int) []Settlement {
	t.Helper()
	_, res, err := tb.ApplyRoll(d1, d2)
	require.NoError(t, err)
	return res
}

func findSettlement(t *testing.T, res []Settlement, bettor string, bt BetType) Settlement {
	t.Helper()
	for _, s := range res {
		if s.Bettor == bettor && s.BetType == bt {
			return s
		}
	}
	t.Fatalf("settlement for %s/%d not found", bettor, bt)
	return Settlement{}
}

func TestStartNewSeriesPreconditions(t *testing.T) {
	tb := NewTable("t-1")

	_, err := tb.StartNewSeries("")
	assert.ErrorIs(t, err, ErrNoShooter)

	id, err := tb.StartNewSeries("shooter-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, PhaseComeOut, tb.Phase())

	// série ativa não é resetada silenciosamente
	_, err = tb.StartNewSeries("shooter-2")
	assert.ErrorIs(t, err, ErrSeriesActive)
}

func TestApplyRollRequiresSeries(t *testing.T) {
	tb := NewTable("t-1")
	_, _, err := tb.ApplyRoll(3, 4)
	assert.ErrorIs(t, err, ErrNoActiveSeries)
}

func TestApplyRollValidatesDice(t *testing.T) {
	tb := startedTable(t)
	_, _, err := tb.ApplyRoll(0, 4)
	assert.ErrorIs(t, err, ErrInvalidRoll)
	_, _, err = tb.ApplyRoll(3, 9)
	assert.ErrorIs(t, err, ErrInvalidRoll)
	// nada mudou
	assert.Equal(t, PhaseComeOut, tb.Phase())
}

func TestApplyRollReportsOutcome(t *testing.T) {
	tb := startedTable(t)

	out, _, err := tb.ApplyRoll(3, 4)
	require.NoError(t, err)
	assert.Equal(t, RollNatural, out)

	out, _, err = tb.ApplyRoll(2, 2)
	require.NoError(t, err)
	assert.Equal(t, RollPointEstablished, out)

	out, _, err = tb.ApplyRoll(3, 4)
	require.NoError(t, err)
	assert.Equal(t, RollSevenOut, out)
}

func TestPlaceBetPreconditions(t *testing.T) {
	tb := startedTable(t)

	assert.ErrorIs(t, tb.PlaceBet("alice", BetType(64), 100), ErrInvalidBetType)
	assert.ErrorIs(t, tb.PlaceBet("", BetPass, 100), ErrNoBettor)
	assert.ErrorIs(t, tb.PlaceBet("alice", BetPass, 0), ErrInvalidAmount)
	assert.ErrorIs(t, tb.PlaceBet("alice", BetPass, -5), ErrInvalidAmount)
	assert.ErrorIs(t, tb.PlaceBet("alice", BetPassOdds, 100), ErrOddsViaPlaceOdds)

	// Come só depois do ponto; Pass só na saída
	assert.ErrorIs(t, tb.PlaceBet("alice", BetCome, 100), ErrWrongPhase)
	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	assert.ErrorIs(t, tb.PlaceBet("alice", BetPass, 100), ErrDuplicateBet)

	roll(t, tb, 2, 2) // ponto 4
	assert.ErrorIs(t, tb.PlaceBet("bob", BetPass, 100), ErrWrongPhase)
	require.NoError(t, tb.PlaceBet("bob", BetCome, 100))

	// bônus/repeater fecham depois da primeira rolagem da mão
	assert.ErrorIs(t, tb.PlaceBet("bob", BetFire, 100), ErrBetsClosed)
	assert.ErrorIs(t, tb.PlaceBet("bob", BetRepeat6, 100), ErrBetsClosed)

	tbIdle := NewTable("t-2")
	assert.ErrorIs(t, tbIdle.PlaceBet("alice", BetPass, 100), ErrNoActiveSeries)
}

func TestPlaceOddsBetPreconditions(t *testing.T) {
	tb := startedTable(t)

	// sem aposta base
	assert.ErrorIs(t, tb.PlaceOddsBet("alice", BetPass, 100), ErrBetNotFound)
	// base que não aceita odds
	assert.ErrorIs(t, tb.PlaceOddsBet("alice", BetField, 100), ErrNotOddsBase)

	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	// ainda sem ponto estabelecido
	assert.ErrorIs(t, tb.PlaceOddsBet("alice", BetPass, 100), ErrNoPointEstablished)

	roll(t, tb, 2, 2) // ponto 4
	require.NoError(t, tb.PlaceOddsBet("alice", BetPass, 100))
	assert.ErrorIs(t, tb.PlaceOddsBet("alice", BetPass, 100), ErrDuplicateBet)

	// come precisa de ponto próprio, não do ponto da mesa
	require.NoError(t, tb.PlaceBet("alice", BetCome, 50))
	assert.ErrorIs(t, tb.PlaceOddsBet("alice", BetCome, 50), ErrNoPointEstablished)
}

func TestRemoveBetRules(t *testing.T) {
	tb := startedTable(t)

	_, err := tb.RemoveBet("alice", BetField)
	assert.ErrorIs(t, err, ErrBetNotFound)

	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	require.NoError(t, tb.PlaceBet("alice", BetField, 40))

	// antes do ponto a linha ainda pode sair
	res, err := tb.RemoveBet("alice", BetPass)
	require.NoError(t, err)
	assert.Equal(t, OutcomePushed, res.Outcome)
	assert.Equal(t, int64(0), res.Payout)

	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	roll(t, tb, 2, 2) // ponto 4: Pass vira contratual

	_, err = tb.RemoveBet("alice", BetPass)
	assert.ErrorIs(t, err, ErrBetNotRemovable)

	// come com ponto próprio também não sai
	require.NoError(t, tb.PlaceBet("alice", BetCome, 50))
	roll(t, tb, 4, 5) // come viaja pro 9
	_, err = tb.RemoveBet("alice", BetCome)
	assert.ErrorIs(t, err, ErrBetNotRemovable)
}

func TestEndCurrentSeriesPushesEverything(t *testing.T) {
	tb := startedTable(t)
	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	require.NoError(t, tb.PlaceBet("bob", BetYes6, 50))
	roll(t, tb, 2, 2)

	res, err := tb.EndCurrentSeries()
	require.NoError(t, err)
	assert.Len(t, res, 2)
	for _, s := range res {
		assert.Equal(t, OutcomePushed, s.Outcome)
		assert.Equal(t, int64(0), s.Payout)
	}
	assert.Equal(t, PhaseIdle, tb.Phase())
	assert.Len(t, tb.History(), 1)

	_, err = tb.EndCurrentSeries()
	assert.ErrorIs(t, err, ErrNoActiveSeries)
}

func TestSevenOutArchivesAndClearsBook(t *testing.T) {
	tb := startedTable(t)
	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	require.NoError(t, tb.PlaceBet("alice", BetYes6, 50))

	roll(t, tb, 2, 3)        // ponto 5
	res := roll(t, tb, 3, 4) // seven-out
	pass := findSettlement(t, res, "alice", BetPass)
	assert.Equal(t, OutcomeLost, pass.Outcome)
	yes := findSettlement(t, res, "alice", BetYes6)
	assert.Equal(t, OutcomeLost, yes.Outcome)

	assert.Equal(t, PhaseIdle, tb.Phase())
	assert.Empty(t, tb.ActiveBets("alice"))
	require.Len(t, tb.History(), 1)
	assert.Equal(t, uint64(1), tb.History()[0].ID)

	_, _, err := tb.ApplyRoll(3, 4)
	assert.ErrorIs(t, err, ErrNoActiveSeries)

	// a próxima série nasce com os acumuladores zerados
	id, err := tb.StartNewSeries("shooter-2")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)
	s, ok := tb.CurrentSeries()
	require.True(t, ok)
	assert.Zero(t, s.RollsSeen)
	assert.Zero(t, s.FireMask)
	assert.Zero(t, s.RollCount[5])
}

func TestSnapshotReflectsSeries(t *testing.T) {
	tb := startedTable(t)
	require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
	roll(t, tb, 3, 3) // ponto 6

	snap := tb.Snapshot()
	assert.Equal(t, "t-1", snap.TableID)
	assert.Equal(t, "point", snap.Phase)
	assert.Equal(t, 6, snap.Point)
	assert.Equal(t, "shooter-1", snap.ShooterID)
	assert.Equal(t, 1, snap.RollsSeen)
	assert.Equal(t, 1, snap.ActiveBets)
}

func TestSettlementDeterminism(t *testing.T) {
	run := func() []Settlement {
		tb := NewTable("t-x")
		_, err := tb.StartNewSeries("shooter-1")
		require.NoError(t, err)
		require.NoError(t, tb.PlaceBet("alice", BetPass, 100))
		require.NoError(t, tb.PlaceBet("bob", BetField, 75))
		require.NoError(t, tb.PlaceBet("carol", BetNext7, 10))
		return roll(t, tb, 3, 4)
	}
	assert.Equal(t, run(), run())
}
