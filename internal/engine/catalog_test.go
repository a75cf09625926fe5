package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCompleteness(t *testing.T) {
	for id := 0; id < NumBetTypes; id++ {
		def, err := Lookup(BetType(id))
		require.NoError(t, err, "bet type %d", id)
		assert.Equal(t, BetType(id), def.Type)
	}

	_, err := Lookup(BetType(64))
	assert.ErrorIs(t, err, ErrInvalidBetType)
}

func TestCatalogCategoryBoundaries(t *testing.T) {
	cases := []struct {
		from, to int
		cat      Category
	}{
		{0, 3, CategoryLine},
		{4, 4, CategoryField},
		{5, 24, CategoryYesNo},
		{25, 28, CategoryHardway},
		{29, 32, CategoryOdds},
		{33, 42, CategoryBonus},
		{43, 53, CategoryNextRoll},
		{54, 63, CategoryRepeater},
	}
	for _, c := range cases {
		for id := c.from; id <= c.to; id++ {
			def, err := Lookup(BetType(id))
			require.NoError(t, err)
			assert.Equal(t, c.cat, def.Category, "bet type %d", id)
		}
	}
}

func TestYesNoMultipliers(t *testing.T) {
	// Âncoras do jogo: YES-4 paga 1.96x, NO-4 paga 0.49x
	m, err := PayoutMultiplier(BetYes4, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(196), m.Payout(100))

	m, err = PayoutMultiplier(BetNo4, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(49), m.Payout(100))

	// tabela inteira em basis points
	for bt, want := range map[BetType]int64{
		BetYes2: 588, BetYes3: 294, BetYes5: 147, BetYes6: 117,
		BetYes8: 117, BetYes9: 147, BetYes10: 196, BetYes11: 294, BetYes12: 588,
		BetNo2: 16, BetNo3: 32, BetNo5: 65, BetNo6: 81,
		BetNo8: 81, BetNo9: 65, BetNo10: 49, BetNo11: 32, BetNo12: 16,
	} {
		m, err := PayoutMultiplier(bt, 0)
		require.NoError(t, err)
		assert.Equal(t, want, m.Payout(100), "bet type %d", bt)
	}
}

func TestPayoutRoundsDown(t *testing.T) {
	// floor(3 * 196 / 100) = 5; a sobra fica com a casa
	m, err := PayoutMultiplier(BetYes4, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), m.Payout(3))
}

func TestPayoutDeterminism(t *testing.T) {
	for id := 0; id < NumBetTypes; id++ {
		def, _ := Lookup(BetType(id))
		if def.Kind == PayoutProcedural {
			continue
		}
		point := 0
		if def.Kind == PayoutByPoint {
			point = 6
		}
		m1, err1 := PayoutMultiplier(BetType(id), point)
		m2, err2 := PayoutMultiplier(BetType(id), point)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, m1.Payout(12345), m2.Payout(12345))
	}
}

func TestOddsMultipliersAreTrueOdds(t *testing.T) {
	// Pass/Come odds: 2:1 (4/10), 3:2 (5/9), 6:5 (6/8)
	for point, want := range map[int]int64{4: 200, 5: 150, 6: 120, 8: 120, 9: 150, 10: 200} {
		m, err := PayoutMultiplier(BetPassOdds, point)
		require.NoError(t, err)
		assert.Equal(t, want, m.Payout(100), "point %d", point)
	}

	// Don't odds: o inverso exato, sem perda de precisão nos racionais
	m, err := PayoutMultiplier(BetDontPassOdds, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(50), m.Payout(100))

	m, err = PayoutMultiplier(BetDontPassOdds, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(60), m.Payout(90)) // 2:3 exato em $90

	m, err = PayoutMultiplier(BetDontComeOdds, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(100), m.Payout(120)) // 5:6 exato em $120

	_, err = PayoutMultiplier(BetPassOdds, 7)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestFieldMultiplier(t *testing.T) {
	for total, want := range map[int]int64{2: 200, 12: 300, 3: 100, 4: 100, 9: 100, 10: 100, 11: 100} {
		m, ok := FieldMultiplier(total)
		require.True(t, ok, "total %d", total)
		assert.Equal(t, want, m.Payout(100), "total %d", total)
	}
	for _, total := range []int{5, 6, 7, 8} {
		_, ok := FieldMultiplier(total)
		assert.False(t, ok, "total %d", total)
	}
}

func TestHardwayMultipliers(t *testing.T) {
	for bt, want := range map[BetType]int64{BetHard4: 700, BetHard10: 700, BetHard6: 900, BetHard8: 900} {
		m, err := PayoutMultiplier(bt, 0)
		require.NoError(t, err)
		assert.Equal(t, want, m.Payout(100))
	}
}

func TestNextRollMultipliers(t *testing.T) {
	for bt, want := range map[BetType]int64{
		BetNext2: 3430, BetNext3: 1666, BetNext4: 1078, BetNext5: 784,
		BetNext6: 607, BetNext7: 490, BetNext8: 607, BetNext9: 784,
		BetNext10: 1078, BetNext11: 1666, BetNext12: 3430,
	} {
		m, err := PayoutMultiplier(bt, 0)
		require.NoError(t, err)
		assert.Equal(t, want, m.Payout(100), "bet type %d", bt)
	}
}

func TestRepeaterTargets(t *testing.T) {
	cases := map[BetType]struct{ number, count int }{
		BetRepeat2:  {2, 2},
		BetRepeat3:  {3, 3},
		BetRepeat4:  {4, 4},
		BetRepeat5:  {5, 5},
		BetRepeat6:  {6, 6},
		BetRepeat8:  {8, 6},
		BetRepeat9:  {9, 5},
		BetRepeat10: {10, 4},
		BetRepeat11: {11, 3},
		BetRepeat12: {12, 2},
	}
	for bt, want := range cases {
		n, c := RepeaterTarget(bt)
		assert.Equal(t, want.number, n)
		assert.Equal(t, want.count, c)
	}

	// extremos da tabela de multiplicadores: 40:1 nos 2/12, 90:1 nos 6/8
	m, err := PayoutMultiplier(BetRepeat2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), m.Payout(100))
	m, err = PayoutMultiplier(BetRepeat6, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), m.Payout(100))
}

func TestProceduralBetsHaveNoStaticMultiplier(t *testing.T) {
	for _, bt := range []BetType{BetField, BetFire, BetHotRoller, BetRideLine, BetMuggsy, BetDiffDoubles} {
		_, err := PayoutMultiplier(bt, 0)
		assert.ErrorIs(t, err, ErrProceduralPayout, "bet type %d", bt)
	}
}
