package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/settlement-worker/repo"
	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

// WalletClient move o dinheiro de uma liquidação. Todas as operações são
// idempotentes no wallet-service pela chave (apostador, external_ref).
type WalletClient interface {
	Commit(ctx context.Context, bettor, externalRef string) error
	Refund(ctx context.Context, bettor, externalRef string) error
	Payout(ctx context.Context, bettor, externalRef string, payoutCents int64) error
}

// SettlementStore persiste o desfecho no banco.
type SettlementStore interface {
	MarkSettled(ctx context.Context, betID string) error
	InsertSettlement(ctx context.Context, s *repo.Settlement) error
}

// Worker consome bets_settled e aplica o contrato de outcome na carteira:
// WON credita stake + ganhos, LOST efetiva o débito da stake, PUSHED devolve
// a stake. Mensagens irreparáveis vão pra DLQ.
type Worker struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	DLQ    *kafka.Writer
	Wallet WalletClient
	Repo   SettlementStore

	OnProcessed func(outcome string)
	OnError     func(stage string)
}

// Run inicia o loop principal; retorna quando o contexto fecha.
func (w *Worker) Run(ctx context.Context) error {
	for {
		m, err := w.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.Log.Warn("kafka read failed", zap.Error(err))
			w.errStage("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		var ev events.BetSettled
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			w.Log.Error("invalid bets_settled message", zap.Error(err))
			w.errStage("decode")
			w.toDLQ(ctx, m.Key, m.Value)
			continue
		}

		if err := w.ProcessOne(ctx, &ev); err != nil {
			w.Log.Error("process settlement",
				zap.String("betId", ev.BetID), zap.String("outcome", ev.Outcome), zap.Error(err))
			w.toDLQ(ctx, m.Key, m.Value)
		}
	}
}

// ProcessOne aplica uma liquidação:
// 1) instrui a carteira conforme o outcome (com retry simples)
// 2) fecha o registro da aposta e grava o settlement
func (w *Worker) ProcessOne(ctx context.Context, ev *events.BetSettled) error {
	if ev.BetID == "" || ev.Bettor == "" {
		w.errStage("validate")
		return fmt.Errorf("settlement missing ids")
	}

	var move func() error
	switch ev.Outcome {
	case "WON":
		move = func() error { return w.Wallet.Payout(ctx, ev.Bettor, ev.BetID, ev.PayoutCents) }
	case "LOST":
		move = func() error { return w.Wallet.Commit(ctx, ev.Bettor, ev.BetID) }
	case "PUSHED":
		move = func() error { return w.Wallet.Refund(ctx, ev.Bettor, ev.BetID) }
	default:
		w.errStage("validate")
		return fmt.Errorf("unknown outcome %q", ev.Outcome)
	}

	err := move()
	if err != nil {
		// Retry simples antes de desistir: a carteira é idempotente
		const retries = 3
		for i := 0; i < retries && err != nil; i++ {
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			err = move()
		}
		if err != nil {
			w.errStage("wallet")
			return err
		}
	}

	if err := w.Repo.MarkSettled(ctx, ev.BetID); err != nil {
		w.errStage("db_status")
		return err
	}
	if err := w.Repo.InsertSettlement(ctx, &repo.Settlement{
		BetID:       ev.BetID,
		TableID:     ev.TableID,
		SeriesID:    ev.SeriesID,
		RequestID:   ev.RequestID,
		Bettor:      ev.Bettor,
		BetType:     ev.BetType,
		AmountCents: ev.AmountCents,
		PayoutCents: ev.PayoutCents,
		Outcome:     ev.Outcome,
		Ts:          ev.Ts,
	}); err != nil {
		w.errStage("db_settlement")
		return err
	}

	if w.OnProcessed != nil {
		w.OnProcessed(ev.Outcome)
	}
	return nil
}

func (w *Worker) toDLQ(ctx context.Context, key, value []byte) {
	if w.DLQ == nil {
		return
	}
	if err := w.DLQ.WriteMessages(ctx, kafka.Message{Key: key, Value: value, Time: time.Now()}); err != nil {
		w.Log.Error("dlq write failed", zap.Error(err))
	}
}

func (w *Worker) errStage(stage string) {
	if w.OnError != nil {
		w.OnError(stage)
	}
}
