package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/settlement-worker/repo"
	"github.com/radieske/craps-table-poc/internal/settlement-worker/wallet"
	"github.com/radieske/craps-table-poc/internal/settlement-worker/worker"
	"github.com/radieske/craps-table-poc/internal/shared/config"
	"github.com/radieske/craps-table-poc/internal/shared/db"
	"github.com/radieske/craps-table-poc/internal/shared/kafka"
	"github.com/radieske/craps-table-poc/internal/shared/logger"
	"github.com/radieske/craps-table-poc/internal/shared/metrics"
)

var (
	settlementsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_worker_processed_total",
		Help: "Liquidações aplicadas na carteira, por outcome",
	}, []string{"outcome"})
	settlementErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_worker_errors_total",
		Help: "Erros de processamento, por estágio",
	}, []string{"stage"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("settlement-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(settlementsProcessed, settlementErrors)

	// Postgres: fecha o status da aposta e grava o settlement
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka: consome bets_settled; irreparáveis vão pra DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetsSettled, "settlement-worker")
	defer reader.Close()
	dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetsSettledDLQ)
	defer dlq.Close()

	w := &worker.Worker{
		Log:    log,
		Reader: reader,
		DLQ:    dlq,
		Wallet: wallet.New(cfg.WalletURL),
		Repo:   repo.NewPostgres(pg),

		OnProcessed: func(outcome string) { settlementsProcessed.WithLabelValues(outcome).Inc() },
		OnError:     func(stage string) { settlementErrors.WithLabelValues(stage).Inc() },
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicBetsSettled),
		zap.String("dlq", cfg.TopicBetsSettledDLQ),
	)
	if err := w.Run(context.Background()); err != nil {
		log.Fatal("worker", zap.Error(err))
	}
}
