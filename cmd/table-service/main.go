package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/shared/cache"
	"github.com/radieske/craps-table-poc/internal/shared/config"
	"github.com/radieske/craps-table-poc/internal/shared/db"
	"github.com/radieske/craps-table-poc/internal/shared/kafka"
	"github.com/radieske/craps-table-poc/internal/shared/logger"
	thttp "github.com/radieske/craps-table-poc/internal/table-service/http"
	tmetrics "github.com/radieske/craps-table-poc/internal/table-service/metrics"
	kpub "github.com/radieske/craps-table-poc/internal/table-service/producer"
	"github.com/radieske/craps-table-poc/internal/table-service/pubsub"
	"github.com/radieske/craps-table-poc/internal/table-service/repo"
	"github.com/radieske/craps-table-poc/internal/table-service/rolls"
	"github.com/radieske/craps-table-poc/internal/table-service/state"
	"github.com/radieske/craps-table-poc/internal/table-service/tables"
	"github.com/radieske/craps-table-poc/internal/table-service/wallet"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("table-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "table-service"), zap.String("env", cfg.Env))

	// Postgres: apostas e histórico de séries
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: dedupe de rolagens, snapshot de mesa e canal do feed
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka: pedidos de rolagem saem, dados vêm de volta, liquidações saem
	rollWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRollRequested)
	defer rollWriter.Close()
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetsSettled)
	defer settledWriter.Close()
	rollsReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicDiceRolls, "table-service")
	defer rollsReader.Close()
	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicDiceRollsDLQ)
	defer dlqWriter.Close()

	// deps
	manager := tables.NewManager()
	repository := repo.NewPostgres(pg)
	wcli := wallet.New(cfg.WalletURL)
	publ := kpub.NewKafkaPublisher(rollWriter, settledWriter)
	snaps := state.NewStore(rdb, 24*time.Hour)
	m := tmetrics.New()

	// Consumer de dice_rolls: aplica a rolagem no engine e propaga os efeitos
	consumer := &rolls.Consumer{
		Log:       log,
		Reader:    rollsReader,
		DLQ:       dlqWriter,
		Tables:    manager,
		Repo:      repository,
		Dedupe:    &rolls.RedisDeduper{Client: rdb, TTL: 24 * time.Hour},
		Publisher: publ,
		Broadcast: pubsub.NewRedisBroadcaster(rdb),
		Snapshots: snaps,
		Channel:   cfg.RedisPubSubChannel,

		OnRollSettled: func() { m.RollsSettled.Inc() },
		OnResolved: func(outcome string, payoutCents int64) {
			m.BetsResolved.WithLabelValues(outcome).Inc()
			m.PayoutCents.Add(float64(payoutCents))
		},
		OnDuplicate: func() { m.DuplicatesRejected.Inc() },
		OnError:     func(stage string) { m.ConsumerErrors.WithLabelValues(stage).Inc() },
	}
	go func() {
		if err := consumer.Run(context.Background()); err != nil {
			log.Fatal("rolls consumer", zap.Error(err))
		}
	}()

	// HTTP público da mesa
	api := thttp.NewServer(log, manager, repository, wcli, publ, snaps)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pg.PingContext(ctx); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("table-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
