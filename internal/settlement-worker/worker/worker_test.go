package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/settlement-worker/repo"
	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

type walletCall struct {
	op     string
	bettor string
	ref    string
	payout int64
}

type fakeWallet struct{ calls []walletCall }

func (f *fakeWallet) Commit(_ context.Context, bettor, ref string) error {
	f.calls = append(f.calls, walletCall{op: "commit", bettor: bettor, ref: ref})
	return nil
}

func (f *fakeWallet) Refund(_ context.Context, bettor, ref string) error {
	f.calls = append(f.calls, walletCall{op: "refund", bettor: bettor, ref: ref})
	return nil
}

func (f *fakeWallet) Payout(_ context.Context, bettor, ref string, payoutCents int64) error {
	f.calls = append(f.calls, walletCall{op: "payout", bettor: bettor, ref: ref, payout: payoutCents})
	return nil
}

type fakeStore struct {
	settledIDs  []string
	settlements []*repo.Settlement
}

func (f *fakeStore) MarkSettled(_ context.Context, betID string) error {
	f.settledIDs = append(f.settledIDs, betID)
	return nil
}

func (f *fakeStore) InsertSettlement(_ context.Context, s *repo.Settlement) error {
	f.settlements = append(f.settlements, s)
	return nil
}

func newWorker(wal *fakeWallet, st *fakeStore) *Worker {
	return &Worker{Log: zap.NewNop(), Wallet: wal, Repo: st}
}

func TestWonPaysStakePlusWinnings(t *testing.T) {
	wal := &fakeWallet{}
	st := &fakeStore{}
	w := newWorker(wal, st)

	ev := &events.BetSettled{
		BetID: "bet-1", TableID: "t-1", SeriesID: 3, RequestID: "req-1",
		Bettor: "alice", BetType: 0, AmountCents: 100, PayoutCents: 200,
		Outcome: "WON", Ts: time.Now(),
	}
	require.NoError(t, w.ProcessOne(context.Background(), ev))

	require.Len(t, wal.calls, 1)
	assert.Equal(t, walletCall{op: "payout", bettor: "alice", ref: "bet-1", payout: 200}, wal.calls[0])
	assert.Equal(t, []string{"bet-1"}, st.settledIDs)
	require.Len(t, st.settlements, 1)
	assert.Equal(t, "WON", st.settlements[0].Outcome)
	assert.Equal(t, int64(200), st.settlements[0].PayoutCents)
}

func TestLostCommitsEscrow(t *testing.T) {
	wal := &fakeWallet{}
	st := &fakeStore{}
	w := newWorker(wal, st)

	ev := &events.BetSettled{BetID: "bet-2", Bettor: "bob", AmountCents: 50, Outcome: "LOST"}
	require.NoError(t, w.ProcessOne(context.Background(), ev))

	require.Len(t, wal.calls, 1)
	assert.Equal(t, "commit", wal.calls[0].op)
	assert.Equal(t, "bet-2", wal.calls[0].ref)
}

func TestPushedRefundsStake(t *testing.T) {
	wal := &fakeWallet{}
	st := &fakeStore{}
	w := newWorker(wal, st)

	ev := &events.BetSettled{BetID: "bet-3", Bettor: "carol", AmountCents: 75, Outcome: "PUSHED"}
	require.NoError(t, w.ProcessOne(context.Background(), ev))

	require.Len(t, wal.calls, 1)
	assert.Equal(t, "refund", wal.calls[0].op)
}

func TestUnknownOutcomeRejected(t *testing.T) {
	wal := &fakeWallet{}
	st := &fakeStore{}
	w := newWorker(wal, st)

	ev := &events.BetSettled{BetID: "bet-4", Bettor: "dave", Outcome: "MAYBE"}
	assert.Error(t, w.ProcessOne(context.Background(), ev))
	assert.Empty(t, wal.calls)
	assert.Empty(t, st.settledIDs)
}

func TestMissingIDsRejected(t *testing.T) {
	wal := &fakeWallet{}
	st := &fakeStore{}
	w := newWorker(wal, st)

	assert.Error(t, w.ProcessOne(context.Background(), &events.BetSettled{Outcome: "WON"}))
	assert.Empty(t, wal.calls)
}
