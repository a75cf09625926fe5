package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/engine"
	"github.com/radieske/craps-table-poc/internal/table-service/dto"
	"github.com/radieske/craps-table-poc/internal/table-service/repo"
	"github.com/radieske/craps-table-poc/internal/table-service/tables"
	"github.com/radieske/craps-table-poc/internal/table-service/wallet"
	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

// Publisher publica os eventos que saem da API: pedidos de rolagem e as
// liquidações administrativas (remoção e encerramento de série).
type Publisher interface {
	PublishRollRequested(ctx context.Context, e events.RollRequested) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// BetStore persiste o ciclo de vida das apostas aceitas pela API.
type BetStore interface {
	CreateActive(ctx context.Context, b *repo.Bet) (string, error)
	MarkRemoved(ctx context.Context, betID string) error
	InsertSeriesHistory(ctx context.Context, h *repo.SeriesHistory) error
}

// SnapshotStore espelha o snapshot da mesa após mutações administrativas.
type SnapshotStore interface {
	SetSnapshot(ctx context.Context, snap engine.TableSnapshot) error
}

type Server struct {
	log    *zap.Logger
	tables *tables.Manager
	repo   BetStore
	wcli   *wallet.Client
	publ   Publisher
	snaps  SnapshotStore
}

func NewServer(log *zap.Logger, m *tables.Manager, r BetStore, w *wallet.Client, p Publisher, s SnapshotStore) *Server {
	return &Server{log: log, tables: m, repo: r, wcli: w, publ: p, snaps: s}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tables", s.createTable) // POST
	mux.HandleFunc("/tables/", s.dispatch)   // subrotas por mesa
	return mux
}

// dispatch roteia /tables/{id}[/...] na mão, no estilo do mux da stdlib.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/tables/")
	parts := strings.Split(rest, "/")
	tableID := parts[0]
	if tableID == "" {
		http.Error(w, "tableId required", http.StatusBadRequest)
		return
	}

	sub := ""
	if len(parts) > 1 {
		sub = strings.Join(parts[1:], "/")
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		s.getTable(w, r, tableID)
	case sub == "series" && r.Method == http.MethodPost:
		s.startSeries(w, r, tableID)
	case sub == "series" && r.Method == http.MethodDelete:
		s.endSeries(w, r, tableID)
	case sub == "series/history" && r.Method == http.MethodGet:
		s.seriesHistory(w, r, tableID)
	case sub == "bets" && r.Method == http.MethodPost:
		s.placeBet(w, r, tableID)
	case sub == "bets" && r.Method == http.MethodDelete:
		s.removeBet(w, r, tableID)
	case sub == "bets" && r.Method == http.MethodGet:
		s.activeBets(w, r, tableID)
	case sub == "odds" && r.Method == http.MethodPost:
		s.placeOdds(w, r, tableID)
	case sub == "rolls/request" && r.Method == http.MethodPost:
		s.requestRoll(w, r, tableID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.CreateTableRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
	}
	id := req.TableID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := s.tables.Create(id); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.log.Info("table created", zap.String("tableId", id))
	writeJSON(w, dto.CreateTableResponse{TableID: id})
}

func (s *Server) getTable(w http.ResponseWriter, _ *http.Request, tableID string) {
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}
	var snap engine.TableSnapshot
	entry.Do(func(t *engine.Table) { snap = t.Snapshot() })
	writeJSON(w, snap)
}

func (s *Server) startSeries(w http.ResponseWriter, r *http.Request, tableID string) {
	var req dto.StartSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	var (
		seriesID uint64
		snap     engine.TableSnapshot
		opErr    error
	)
	entry.Do(func(t *engine.Table) {
		seriesID, opErr = t.StartNewSeries(req.ShooterID)
		snap = t.Snapshot()
	})
	if opErr != nil {
		s.writeEngineError(w, opErr)
		return
	}
	s.refreshSnapshot(r.Context(), snap)

	s.log.Info("series started",
		zap.String("tableId", tableID),
		zap.Uint64("seriesId", seriesID),
		zap.String("shooterId", req.ShooterID))
	writeJSON(w, dto.StartSeriesResponse{TableID: tableID, SeriesID: seriesID, ShooterID: req.ShooterID})
}

// endSeries encerra a mão administrativamente: toda aposta pendente volta
// como PUSHED e vira um evento bets_settled pro worker devolver a stake.
func (s *Server) endSeries(w http.ResponseWriter, r *http.Request, tableID string) {
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	var (
		results  []engine.Settlement
		settled  []events.BetSettled
		archived *engine.ArchivedSeries
		seriesID uint64
		snap     engine.TableSnapshot
		opErr    error
	)
	entry.Do(func(t *engine.Table) {
		if cur, active := t.CurrentSeries(); active {
			seriesID = cur.ID
		}
		results, opErr = t.EndCurrentSeries()
		if opErr != nil {
			return
		}
		now := time.Now()
		for _, res := range results {
			betID, _ := entry.BetRef(res.Bettor, res.BetType, true)
			settled = append(settled, events.BetSettled{
				BetID:       betID,
				TableID:     tableID,
				SeriesID:    seriesID,
				Bettor:      res.Bettor,
				BetType:     int(res.BetType),
				AmountCents: res.Amount,
				PayoutCents: 0,
				Outcome:     res.Outcome.String(),
				Ts:          now,
			})
		}
		hist := t.History()
		last := hist[len(hist)-1]
		archived = &last
		snap = t.Snapshot()
	})
	if opErr != nil {
		s.writeEngineError(w, opErr)
		return
	}

	for _, e := range settled {
		if err := s.publ.PublishBetSettled(r.Context(), e); err != nil {
			s.log.Error("publish bets_settled", zap.String("betId", e.BetID), zap.Error(err))
		}
	}
	if err := s.repo.InsertSeriesHistory(r.Context(), &repo.SeriesHistory{
		TableID:            tableID,
		SeriesID:           archived.ID,
		ShooterID:          archived.ShooterID,
		PointsMadeCount:    archived.PointsMadeCount,
		MaxConsecutiveWins: archived.MaxConsecutiveWins,
		FireMask:           int(archived.FireMask),
		DoublesMask:        int(archived.DoublesMask),
		SmallTallMask:      int(archived.SmallTallMask),
		RollsSeen:          archived.RollsSeen,
	}); err != nil {
		s.log.Warn("series history insert", zap.Error(err))
	}
	s.refreshSnapshot(r.Context(), snap)

	views := make([]dto.SettlementView, 0, len(settled))
	for _, e := range settled {
		views = append(views, dto.SettlementView{
			BetID:       e.BetID,
			Bettor:      e.Bettor,
			BetType:     e.BetType,
			AmountCents: e.AmountCents,
			PayoutCents: e.PayoutCents,
			Outcome:     e.Outcome,
		})
	}
	writeJSON(w, views)
}

// placeBet aceita uma aposta nova:
// 1) registra a aposta ACTIVE no banco (o betId vira external_ref do escrow)
// 2) reserva a stake na carteira
// 3) entra no livro do engine sob o lock da mesa
// Se o engine rejeitar, a reserva é estornada e o registro marcado REMOVED.
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request, tableID string) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Bettor == "" || req.AmountCents <= 0 || req.BetType < 0 || req.BetType >= engine.NumBetTypes {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	s.acceptBet(w, r, tableID, req.Bettor, engine.BetType(req.BetType), req.AmountCents, false)
}

// placeOdds coloca odds atrás de uma aposta de linha já viva.
func (s *Server) placeOdds(w http.ResponseWriter, r *http.Request, tableID string) {
	var req dto.PlaceOddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Bettor == "" || req.AmountCents <= 0 || req.BaseBetType < 0 || req.BaseBetType >= engine.NumBetTypes {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	s.acceptBet(w, r, tableID, req.Bettor, engine.BetType(req.BaseBetType), req.AmountCents, true)
}

func (s *Server) acceptBet(w http.ResponseWriter, r *http.Request, tableID, bettor string, bt engine.BetType, amount int64, odds bool) {
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	bookType := bt
	if odds {
		var err error
		if bookType, err = engine.OddsTypeFor(bt); err != nil {
			s.writeEngineError(w, err)
			return
		}
	}

	var seriesID uint64
	entry.Do(func(t *engine.Table) {
		if cur, active := t.CurrentSeries(); active {
			seriesID = cur.ID
		}
	})

	betID, err := s.repo.CreateActive(r.Context(), &repo.Bet{
		TableID:     tableID,
		SeriesID:    seriesID,
		Bettor:      bettor,
		BetType:     int(bookType),
		AmountCents: amount,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := s.wcli.Reserve(r.Context(), bettor, amount, betID); err != nil {
		s.log.Warn("wallet reserve failed", zap.String("betId", betID), zap.Error(err))
		_ = s.repo.MarkRemoved(r.Context(), betID)
		http.Error(w, "wallet reserve failed", http.StatusConflict)
		return
	}

	var opErr error
	entry.Do(func(t *engine.Table) {
		if odds {
			opErr = t.PlaceOddsBet(bettor, bt, amount)
		} else {
			opErr = t.PlaceBet(bettor, bt, amount)
		}
		if opErr == nil {
			entry.TrackBet(bettor, bookType, betID)
		}
	})
	if opErr != nil {
		// desfaz o escrow: a aposta nunca entrou no livro
		if err := s.wcli.Refund(r.Context(), bettor, betID); err != nil {
			s.log.Error("escrow rollback failed", zap.String("betId", betID), zap.Error(err))
		}
		_ = s.repo.MarkRemoved(r.Context(), betID)
		s.writeEngineError(w, opErr)
		return
	}

	writeJSON(w, dto.PlaceBetResponse{BetID: betID, Status: "ACTIVE", BetType: int(bookType)})
}

// removeBet devolve uma aposta removível: o engine valida a regra, o evento
// PUSHED instrui o worker a estornar a reserva.
func (s *Server) removeBet(w http.ResponseWriter, r *http.Request, tableID string) {
	var req dto.RemoveBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	var (
		res      engine.Settlement
		betID    string
		seriesID uint64
		opErr    error
	)
	entry.Do(func(t *engine.Table) {
		if cur, active := t.CurrentSeries(); active {
			seriesID = cur.ID
		}
		res, opErr = t.RemoveBet(req.Bettor, engine.BetType(req.BetType))
		if opErr == nil {
			betID, _ = entry.BetRef(req.Bettor, engine.BetType(req.BetType), true)
		}
	})
	if opErr != nil {
		s.writeEngineError(w, opErr)
		return
	}

	if err := s.publ.PublishBetSettled(r.Context(), events.BetSettled{
		BetID:       betID,
		TableID:     tableID,
		SeriesID:    seriesID,
		Bettor:      res.Bettor,
		BetType:     int(res.BetType),
		AmountCents: res.Amount,
		PayoutCents: 0,
		Outcome:     res.Outcome.String(),
		Ts:          time.Now(),
	}); err != nil {
		s.log.Error("publish bets_settled", zap.String("betId", betID), zap.Error(err))
	}
	_ = s.repo.MarkRemoved(r.Context(), betID)

	writeJSON(w, dto.SettlementView{
		BetID:       betID,
		Bettor:      res.Bettor,
		BetType:     int(res.BetType),
		AmountCents: res.Amount,
		PayoutCents: 0,
		Outcome:     res.Outcome.String(),
	})
}

func (s *Server) activeBets(w http.ResponseWriter, r *http.Request, tableID string) {
	bettor := r.URL.Query().Get("bettor")
	if bettor == "" {
		http.Error(w, "bettor required", http.StatusBadRequest)
		return
	}
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	var out []dto.ActiveBetView
	entry.Do(func(t *engine.Table) {
		for _, b := range t.ActiveBets(bettor) {
			betID, _ := entry.BetRef(b.Bettor, b.Type, false)
			out = append(out, dto.ActiveBetView{
				BetID:         betID,
				Bettor:        b.Bettor,
				BetType:       int(b.Type),
				AmountCents:   b.Amount,
				PointSnapshot: b.PointSnapshot,
			})
		}
	})
	writeJSON(w, out)
}

func (s *Server) seriesHistory(w http.ResponseWriter, _ *http.Request, tableID string) {
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}
	var out []dto.SeriesHistoryView
	entry.Do(func(t *engine.Table) {
		for _, h := range t.History() {
			out = append(out, dto.SeriesHistoryView{
				SeriesID:           h.ID,
				ShooterID:          h.ShooterID,
				PointsMadeCount:    h.PointsMadeCount,
				MaxConsecutiveWins: h.MaxConsecutiveWins,
				RollsSeen:          h.RollsSeen,
			})
		}
	})
	writeJSON(w, out)
}

// requestRoll pede uma rolagem nova ao provedor de aleatoriedade via Kafka.
func (s *Server) requestRoll(w http.ResponseWriter, r *http.Request, tableID string) {
	entry, ok := s.tables.Get(tableID)
	if !ok {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	var (
		seriesID uint64
		active   bool
	)
	entry.Do(func(t *engine.Table) {
		var cur engine.Series
		cur, active = t.CurrentSeries()
		if active {
			seriesID = cur.ID
		}
	})
	if !active {
		s.writeEngineError(w, engine.ErrNoActiveSeries)
		return
	}

	requestID := uuid.NewString()
	if err := s.publ.PublishRollRequested(r.Context(), events.RollRequested{
		RequestID: requestID,
		TableID:   tableID,
		SeriesID:  seriesID,
	}); err != nil {
		http.Error(w, "publish roll_requested failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, dto.RollRequestedResponse{RequestID: requestID, TableID: tableID, SeriesID: seriesID})
}

func (s *Server) refreshSnapshot(ctx context.Context, snap engine.TableSnapshot) {
	if s.snaps == nil {
		return
	}
	if err := s.snaps.SetSnapshot(ctx, snap); err != nil {
		s.log.Warn("snapshot refresh", zap.Error(err))
	}
}

// writeEngineError traduz a taxonomia do engine pra HTTP: precondição vira
// 4xx, violação de invariante vira 500 (e ganha log de erro).
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidBetType),
		errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrNoShooter),
		errors.Is(err, engine.ErrNoBettor):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, engine.ErrBetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrDuplicateBet),
		errors.Is(err, engine.ErrSeriesActive),
		errors.Is(err, engine.ErrNoActiveSeries),
		errors.Is(err, engine.ErrBetNotRemovable),
		errors.Is(err, engine.ErrNoPointEstablished),
		errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrBetsClosed),
		errors.Is(err, engine.ErrOddsViaPlaceOdds),
		errors.Is(err, engine.ErrNotOddsBase):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("engine invariant violation", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
