package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	fcache "github.com/radieske/craps-table-poc/internal/feed-service/cache"
	fhttp "github.com/radieske/craps-table-poc/internal/feed-service/http"
	frepo "github.com/radieske/craps-table-poc/internal/feed-service/repo"
	"github.com/radieske/craps-table-poc/internal/feed-service/ws"
	"github.com/radieske/craps-table-poc/internal/shared/cache"
	"github.com/radieske/craps-table-poc/internal/shared/config"
	"github.com/radieske/craps-table-poc/internal/shared/db"
	"github.com/radieske/craps-table-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("feed-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "feed-service"), zap.String("env", cfg.Env))

	// Postgres: leitura de liquidações e histórico de mãos
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: snapshot da mesa + canal Pub/Sub do feed
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	hub := ws.NewHub(func(_ *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), log, rdb, cfg.RedisPubSubChannel, hub)

	api := &fhttp.API{
		ReadRepo: &frepo.ReadRepo{DB: pg},
		Cache:    fcache.New(rdb),
		Hub:      hub,
	}
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// metrics/health
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	log.Info("feed-service listening", zap.String("addr", apiSrv.Addr), zap.String("channel", cfg.RedisPubSubChannel))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
