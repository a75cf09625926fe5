package roller

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/pkg/contracts/events"
)

// Roller é o provedor de aleatoriedade simulado: consome roll_requested,
// sorteia dois dados uniformes e publica dice_rolls com o request id como
// chave. DuplicatePct > 0 reenvia a mesma entrega de propósito pra exercitar
// o dedupe do consumidor.
type Roller struct {
	Log          *zap.Logger
	Reader       *kafka.Reader
	Writer       *kafka.Writer
	Rnd          *rand.Rand
	DuplicatePct int

	OnRolled     func()
	OnDuplicated func()
}

// New monta o roller; seed 0 usa o relógio (execuções reprodutíveis pedem
// uma semente fixa via config).
func New(log *zap.Logger, reader *kafka.Reader, writer *kafka.Writer, seed int64, duplicatePct int) *Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Roller{
		Log:          log,
		Reader:       reader,
		Writer:       writer,
		Rnd:          rand.New(rand.NewSource(seed)),
		DuplicatePct: duplicatePct,
	}
}

// Draw sorteia as duas faces, uniformes em 1..6.
func (r *Roller) Draw() (int, int) {
	return 1 + r.Rnd.Intn(6), 1 + r.Rnd.Intn(6)
}

// Run consome pedidos de rolagem até o contexto fechar.
func (r *Roller) Run(ctx context.Context) error {
	for {
		m, err := r.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Log.Warn("kafka read failed", zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		var req events.RollRequested
		if err := json.Unmarshal(m.Value, &req); err != nil {
			r.Log.Error("invalid roll_requested message", zap.Error(err))
			continue
		}
		if req.RequestID == "" || req.TableID == "" {
			r.Log.Warn("roll_requested missing ids, skipped")
			continue
		}

		d1, d2 := r.Draw()
		ev := events.DiceRoll{
			RequestID: req.RequestID,
			TableID:   req.TableID,
			Die1:      d1,
			Die2:      d2,
			TsUnixMs:  time.Now().UnixMilli(),
		}
		b, _ := json.Marshal(ev)
		msg := kafka.Message{Key: []byte(req.RequestID), Value: b, Time: time.Now()}

		if err := r.Writer.WriteMessages(ctx, msg); err != nil {
			r.Log.Error("publish dice_rolls", zap.String("requestId", req.RequestID), zap.Error(err))
			continue
		}
		if r.OnRolled != nil {
			r.OnRolled()
		}
		r.Log.Info("dice rolled",
			zap.String("requestId", req.RequestID),
			zap.String("tableId", req.TableID),
			zap.Int("die1", d1), zap.Int("die2", d2))

		// entrega duplicada proposital: o consumidor tem que descartar
		if r.DuplicatePct > 0 && r.Rnd.Intn(100) < r.DuplicatePct {
			if err := r.Writer.WriteMessages(ctx, msg); err == nil {
				if r.OnDuplicated != nil {
					r.OnDuplicated()
				}
				r.Log.Info("duplicate fulfilment emitted", zap.String("requestId", req.RequestID))
			}
		}
	}
}
