package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/craps-table-poc/internal/shared/config"
	"github.com/radieske/craps-table-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	tableURL := os.Getenv("TABLE_URL")
	if tableURL == "" {
		tableURL = "http://localhost:8080"
	}
	walletURL := os.Getenv("WALLET_URL")
	if walletURL == "" {
		walletURL = "http://localhost:8082"
	}
	feedURL := os.Getenv("FEED_URL")
	if feedURL == "" {
		feedURL = "http://localhost:8084"
	}
	table := rp(tableURL)
	wallet := rp(walletURL)
	feed := rp(feedURL)

	mux := http.NewServeMux()

	// mesas (ex.: /api/tables/* -> table-service)
	mux.Handle("/api/tables/", http.StripPrefix("/api", table))

	// wallet (ex.: /api/wallet/* -> wallet-service)
	mux.Handle("/api/wallet/", http.StripPrefix("/api", wallet))

	// feed (ex.: /api/feed/* -> feed-service)
	mux.Handle("/api/feed/", http.StripPrefix("/api/feed", feed))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
