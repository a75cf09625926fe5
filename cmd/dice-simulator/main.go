package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/dice-simulator/roller"
	"github.com/radieske/craps-table-poc/internal/shared/config"
	"github.com/radieske/craps-table-poc/internal/shared/kafka"
	"github.com/radieske/craps-table-poc/internal/shared/logger"
	"github.com/radieske/craps-table-poc/internal/shared/metrics"
)

var (
	rollsFulfilled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dice_rolls_fulfilled_total",
		Help: "Pedidos de rolagem atendidos",
	})
	rollsDuplicated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dice_rolls_duplicated_total",
		Help: "Rolagens reentregues de propósito (exercita o dedupe)",
	})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("dice-simulator", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(rollsFulfilled, rollsDuplicated)

	// Kafka: consome roll_requested e publica dice_rolls
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicRollRequested, "dice-simulator")
	defer reader.Close()
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicDiceRolls)
	defer writer.Close()

	r := roller.New(log, reader, writer, cfg.DiceSeed, cfg.DiceDuplicatePct)
	r.OnRolled = func() { rollsFulfilled.Inc() }
	r.OnDuplicated = func() { rollsDuplicated.Inc() }

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(context.Context) error { return nil })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("dice-simulator started",
		zap.String("consume", cfg.TopicRollRequested),
		zap.String("publish", cfg.TopicDiceRolls),
		zap.Int64("seed", cfg.DiceSeed),
		zap.Int("duplicatePct", cfg.DiceDuplicatePct),
	)
	if err := r.Run(context.Background()); err != nil {
		log.Fatal("roller", zap.Error(err))
	}
}
