package rolls

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/engine"
	"github.com/radieske/craps-table-poc/internal/table-service/dto"
	"github.com/radieske/craps-table-poc/internal/table-service/pubsub"
	"github.com/radieske/craps-table-poc/internal/table-service/repo"
	"github.com/radieske/craps-table-poc/internal/table-service/tables"
	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

// Deduper marca um request id como processado. false = alguém já liquidou
// essa entrega; a repetição é descartada sem tocar no engine.
type Deduper interface {
	MarkProcessed(ctx context.Context, requestID string) (bool, error)
}

// RedisDeduper implementa o conjunto de requests processados com SETNX.
type RedisDeduper struct {
	Client *redis.Client
	TTL    time.Duration
}

func (d *RedisDeduper) MarkProcessed(ctx context.Context, requestID string) (bool, error) {
	return d.Client.SetNX(ctx, "roll:processed:"+requestID, 1, d.TTL).Result()
}

// Publisher publica liquidações individuais pro settlement-worker.
type Publisher interface {
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Broadcaster empurra o resultado da rolagem pro canal de display.
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// SnapshotStore espelha o snapshot da mesa pro caminho de leitura.
type SnapshotStore interface {
	SetSnapshot(ctx context.Context, snap engine.TableSnapshot) error
}

// HistoryStore persiste o snapshot final de uma mão arquivada.
type HistoryStore interface {
	InsertSeriesHistory(ctx context.Context, h *repo.SeriesHistory) error
}

// Consumer consome dice_rolls, aplica cada rolagem sob o lock da mesa e
// propaga os efeitos: eventos bets_settled, histórico de série, snapshot e
// broadcast. Mensagens venenosas vão pra DLQ.
type Consumer struct {
	Log       *zap.Logger
	Reader    *kafka.Reader
	DLQ       *kafka.Writer
	Tables    *tables.Manager
	Repo      HistoryStore
	Dedupe    Deduper
	Publisher Publisher
	Broadcast Broadcaster
	Snapshots SnapshotStore
	Channel   string // canal Redis Pub/Sub do feed

	OnRollSettled func()
	OnResolved    func(outcome string, payoutCents int64)
	OnDuplicate   func()
	OnError       func(stage string)
}

// Run inicia o loop principal de consumo; retorna quando o contexto fecha.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Warn("kafka read failed", zap.Error(err))
			c.errStage("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		var ev events.DiceRoll
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			c.Log.Error("invalid dice_rolls message", zap.Error(err))
			c.errStage("decode")
			c.toDLQ(ctx, m.Key, m.Value)
			continue
		}

		if err := c.processOne(ctx, &ev, m.Value); err != nil {
			c.Log.Error("process roll", zap.String("requestId", ev.RequestID), zap.Error(err))
			time.Sleep(300 * time.Millisecond)
		}
	}
}

// processOne liquida uma entrega de rolagem:
// 1) dedupe por request id (SETNX)
// 2) aplica a rolagem no engine sob o lock da mesa
// 3) publica bets_settled por aposta resolvida
// 4) grava histórico no seven-out, espelha snapshot e faz broadcast
func (c *Consumer) processOne(ctx context.Context, ev *events.DiceRoll, raw []byte) error {
	if ev.RequestID == "" || ev.TableID == "" {
		c.errStage("validate")
		c.toDLQ(ctx, []byte(ev.RequestID), raw)
		return nil
	}

	first, err := c.Dedupe.MarkProcessed(ctx, ev.RequestID)
	if err != nil {
		c.errStage("dedupe")
		return err
	}
	if !first {
		if c.OnDuplicate != nil {
			c.OnDuplicate()
		}
		c.Log.Info("duplicate roll fulfilment discarded",
			zap.String("requestId", ev.RequestID), zap.String("tableId", ev.TableID))
		return nil
	}

	entry, ok := c.Tables.Get(ev.TableID)
	if !ok {
		c.errStage("table_lookup")
		c.toDLQ(ctx, []byte(ev.RequestID), raw)
		return nil
	}

	var (
		outcome     engine.RollOutcome
		settlements []engine.Settlement
		settled     []events.BetSettled
		snap        engine.TableSnapshot
		archived    *engine.ArchivedSeries
		seriesID    uint64
		applyErr    error
	)

	entry.Do(func(t *engine.Table) {
		if s, active := t.CurrentSeries(); active {
			seriesID = s.ID
		}

		outcome, settlements, applyErr = t.ApplyRoll(ev.Die1, ev.Die2)
		if applyErr != nil {
			return
		}

		now := time.Now()
		for _, s := range settlements {
			if s.Outcome == engine.OutcomeStillActive {
				continue
			}
			betID, _ := entry.BetRef(s.Bettor, s.BetType, true)
			settled = append(settled, events.BetSettled{
				BetID:       betID,
				TableID:     ev.TableID,
				SeriesID:    seriesID,
				RequestID:   ev.RequestID,
				Bettor:      s.Bettor,
				BetType:     int(s.BetType),
				AmountCents: s.Amount,
				PayoutCents: s.Payout,
				Outcome:     s.Outcome.String(),
				Ts:          now,
			})
		}

		snap = t.Snapshot()
		if outcome == engine.RollSevenOut {
			hist := t.History()
			last := hist[len(hist)-1]
			archived = &last
		}
	})

	if applyErr != nil {
		if errors.Is(applyErr, engine.ErrNoActiveSeries) {
			// rolagem chegou depois do fim da mão (pedido antigo): sem ação
			c.Log.Warn("roll for idle table discarded", zap.String("tableId", ev.TableID))
			return nil
		}
		c.errStage("apply")
		c.toDLQ(ctx, []byte(ev.RequestID), raw)
		return applyErr
	}

	if c.OnRollSettled != nil {
		c.OnRollSettled()
	}

	for _, e := range settled {
		if err := c.Publisher.PublishBetSettled(ctx, e); err != nil {
			c.errStage("publish")
			c.Log.Error("publish bets_settled", zap.String("betId", e.BetID), zap.Error(err))
		} else if c.OnResolved != nil {
			c.OnResolved(e.Outcome, e.PayoutCents)
		}
	}

	if archived != nil {
		if err := c.Repo.InsertSeriesHistory(ctx, &repo.SeriesHistory{
			TableID:            ev.TableID,
			SeriesID:           archived.ID,
			ShooterID:          archived.ShooterID,
			PointsMadeCount:    archived.PointsMadeCount,
			MaxConsecutiveWins: archived.MaxConsecutiveWins,
			FireMask:           int(archived.FireMask),
			DoublesMask:        int(archived.DoublesMask),
			SmallTallMask:      int(archived.SmallTallMask),
			RollsSeen:          archived.RollsSeen,
		}); err != nil {
			c.errStage("history")
			c.Log.Warn("series history insert", zap.Error(err))
		}
	}

	if err := c.Snapshots.SetSnapshot(ctx, snap); err != nil {
		c.errStage("snapshot")
		c.Log.Warn("snapshot refresh", zap.Error(err))
	}

	c.broadcast(ctx, ev, outcome, settled, snap)
	return nil
}

func (c *Consumer) broadcast(ctx context.Context, ev *events.DiceRoll, outcome engine.RollOutcome, settled []events.BetSettled, snap engine.TableSnapshot) {
	views := make([]dto.SettlementView, 0, len(settled))
	for _, s := range settled {
		views = append(views, dto.SettlementView{
			BetID:       s.BetID,
			Bettor:      s.Bettor,
			BetType:     s.BetType,
			AmountCents: s.AmountCents,
			PayoutCents: s.PayoutCents,
			Outcome:     s.Outcome,
		})
	}
	b, _ := json.Marshal(pubsub.FeedUpdate{
		TableID:     ev.TableID,
		RequestID:   ev.RequestID,
		Die1:        ev.Die1,
		Die2:        ev.Die2,
		Outcome:     outcome.String(),
		Settlements: views,
		Snapshot:    snap,
	})
	if err := c.Broadcast.Publish(ctx, c.Channel, b); err != nil {
		c.errStage("broadcast")
		c.Log.Warn("feed broadcast publish failed", zap.Error(err))
	}
}

func (c *Consumer) toDLQ(ctx context.Context, key, value []byte) {
	if c.DLQ == nil {
		return
	}
	if err := c.DLQ.WriteMessages(ctx, kafka.Message{Key: key, Value: value, Time: time.Now()}); err != nil {
		c.Log.Error("dlq write failed", zap.Error(err))
	}
}

func (c *Consumer) errStage(stage string) {
	if c.OnError != nil {
		c.OnError(stage)
	}
}
