package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/engine"
	"github.com/radieske/craps-table-poc/internal/table-service/dto"
	"github.com/radieske/craps-table-poc/internal/table-service/repo"
	"github.com/radieske/craps-table-poc/internal/table-service/tables"
	"github.com/radieske/craps-table-poc/internal/table-service/wallet"
	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

type fakePublisher struct {
	rolls   []events.RollRequested
	settled []events.BetSettled
}

func (f *fakePublisher) PublishRollRequested(_ context.Context, e events.RollRequested) error {
	f.rolls = append(f.rolls, e)
	return nil
}

func (f *fakePublisher) PublishBetSettled(_ context.Context, e events.BetSettled) error {
	f.settled = append(f.settled, e)
	return nil
}

type fakeBetStore struct {
	seq     int
	created []*repo.Bet
	removed []string
	history []*repo.SeriesHistory
}

func (f *fakeBetStore) CreateActive(_ context.Context, b *repo.Bet) (string, error) {
	f.seq++
	id := fmt.Sprintf("bet-%d", f.seq)
	b.ID = id
	f.created = append(f.created, b)
	return id, nil
}

func (f *fakeBetStore) MarkRemoved(_ context.Context, betID string) error {
	f.removed = append(f.removed, betID)
	return nil
}

func (f *fakeBetStore) InsertSeriesHistory(_ context.Context, h *repo.SeriesHistory) error {
	f.history = append(f.history, h)
	return nil
}

type fakeSnapshots struct {
	mu   sync.Mutex
	last *engine.TableSnapshot
}

func (f *fakeSnapshots) SetSnapshot(_ context.Context, snap engine.TableSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &snap
	return nil
}

// walletStub registra as chamadas de escrow feitas pela API da mesa.
type walletStub struct {
	mu       sync.Mutex
	reserves []string
	refunds  []string
}

func (ws *walletStub) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet/reserve", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExternalRef string `json:"external_ref"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		ws.mu.Lock()
		ws.reserves = append(ws.reserves, req.ExternalRef)
		ws.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"reservationId": "res-" + req.ExternalRef, "status": "PENDING"})
	})
	mux.HandleFunc("/wallet/refund", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExternalRef string `json:"external_ref"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		ws.mu.Lock()
		ws.refunds = append(ws.refunds, req.ExternalRef)
		ws.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

type fixture struct {
	handler http.Handler
	tables  *tables.Manager
	store   *fakeBetStore
	publ    *fakePublisher
	wstub   *walletStub
	close   func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	wstub := &walletStub{}
	ts := wstub.server()
	store := &fakeBetStore{}
	publ := &fakePublisher{}
	manager := tables.NewManager()
	srv := NewServer(zap.NewNop(), manager, store, wallet.New(ts.URL), publ, &fakeSnapshots{})
	return &fixture{
		handler: srv.Router(),
		tables:  manager,
		store:   store,
		publ:    publ,
		wstub:   wstub,
		close:   ts.Close,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createTable(t *testing.T, id string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/tables", dto.CreateTableRequest{TableID: id})
	require.Equal(t, http.StatusOK, rec.Code)
}

func (f *fixture) startSeries(t *testing.T, tableID, shooter string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/tables/"+tableID+"/series", dto.StartSeriesRequest{ShooterID: shooter})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateTableRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	f.createTable(t, "mesa-1")
	rec := f.do(t, http.MethodPost, "/tables", dto.CreateTableRequest{TableID: "mesa-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceBetReservesEscrow(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")
	f.startSeries(t, "mesa-1", "shooter-1")

	rec := f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "alice", BetType: int(engine.BetPass), AmountCents: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out dto.PlaceBetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "bet-1", out.BetID)
	assert.Equal(t, "ACTIVE", out.Status)

	// a reserva usa o betId como external_ref
	assert.Equal(t, []string{"bet-1"}, f.wstub.reserves)
	assert.Empty(t, f.wstub.refunds)
	require.Len(t, f.store.created, 1)
	assert.Equal(t, int(engine.BetPass), f.store.created[0].BetType)
}

func TestPlaceBetRollsBackEscrowOnEngineReject(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")
	f.startSeries(t, "mesa-1", "shooter-1")

	// odds não entram por /bets: o engine rejeita e a reserva é estornada
	rec := f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "alice", BetType: int(engine.BetPassOdds), AmountCents: 100,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, []string{"bet-1"}, f.wstub.reserves)
	assert.Equal(t, []string{"bet-1"}, f.wstub.refunds)
	assert.Equal(t, []string{"bet-1"}, f.store.removed)
}

func TestPlaceBetValidatesPayload(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")

	rec := f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "", BetType: 0, AmountCents: 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "alice", BetType: 99, AmountCents: 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nenhuma das duas chegou na carteira
	assert.Empty(t, f.wstub.reserves)
}

func TestRemoveBetPublishesPush(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")
	f.startSeries(t, "mesa-1", "shooter-1")

	rec := f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "alice", BetType: int(engine.BetYes6), AmountCents: 120,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/tables/mesa-1/bets", dto.RemoveBetRequest{
		Bettor: "alice", BetType: int(engine.BetYes6),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.publ.settled, 1)
	assert.Equal(t, "bet-1", f.publ.settled[0].BetID)
	assert.Equal(t, "PUSHED", f.publ.settled[0].Outcome)
	assert.Equal(t, int64(0), f.publ.settled[0].PayoutCents)
	assert.Equal(t, []string{"bet-1"}, f.store.removed)
}

func TestRemoveBetRejectsContractBets(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")
	f.startSeries(t, "mesa-1", "shooter-1")

	rec := f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "alice", BetType: int(engine.BetPass), AmountCents: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/tables/mesa-1/bets", dto.RemoveBetRequest{
		Bettor: "alice", BetType: int(engine.BetPass),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.publ.settled)
}

func TestRequestRollNeedsActiveSeries(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")

	rec := f.do(t, http.MethodPost, "/tables/mesa-1/rolls/request", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.startSeries(t, "mesa-1", "shooter-1")
	rec = f.do(t, http.MethodPost, "/tables/mesa-1/rolls/request", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out dto.RollRequestedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.RequestID)
	require.Len(t, f.publ.rolls, 1)
	assert.Equal(t, out.RequestID, f.publ.rolls[0].RequestID)
}

func TestEndSeriesPushesOpenBets(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")
	f.startSeries(t, "mesa-1", "shooter-1")

	rec := f.do(t, http.MethodPost, "/tables/mesa-1/bets", dto.PlaceBetRequest{
		Bettor: "alice", BetType: int(engine.BetPass), AmountCents: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/tables/mesa-1/series", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.publ.settled, 1)
	assert.Equal(t, "PUSHED", f.publ.settled[0].Outcome)
	require.Len(t, f.store.history, 1)
	assert.Equal(t, "shooter-1", f.store.history[0].ShooterID)

	// a mesa volta pra idle: nova série pode começar
	f.startSeries(t, "mesa-1", "shooter-2")
}

func TestGetTableReturnsSnapshot(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	f.createTable(t, "mesa-1")
	f.startSeries(t, "mesa-1", "shooter-1")

	rec := f.do(t, http.MethodGet, "/tables/mesa-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap engine.TableSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "mesa-1", snap.TableID)

	rec = f.do(t, http.MethodGet, "/tables/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
