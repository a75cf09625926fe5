package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/craps-table-poc/internal/feed-service/cache"
	"github.com/radieske/craps-table-poc/internal/feed-service/repo"
	"github.com/radieske/craps-table-poc/internal/feed-service/ws"
)

// API expõe os endpoints REST de consulta do estado da mesa
// Snapshot vem do Redis (escrito pelo table-service a cada rolagem);
// liquidações e histórico vêm do Postgres (escritos pelos workers)
type API struct {
	ReadRepo *repo.ReadRepo // acesso ao banco de dados
	Cache    *cache.Cache   // snapshot da mesa
	Hub      *ws.Hub        // assinaturas WebSocket
}

// Router retorna o roteador HTTP com os endpoints REST + WebSocket
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/tables/{id}/snapshot", a.getSnapshot)       // Estado corrente da mesa
	r.Get("/v1/tables/{id}/settlements", a.listSettlement) // Últimas liquidações
	r.Get("/v1/tables/{id}/series/history", a.listHistory) // Mãos arquivadas
	r.Get("/ws", a.Hub.HandleWS)                           // Feed ao vivo
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// getSnapshot devolve o snapshot da mesa direto do cache, sem re-serializar
func (a *API) getSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	raw, ok, err := a.Cache.GetSnapshot(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// listSettlement devolve as liquidações recentes da mesa (limit, default 50)
func (a *API) listSettlement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := a.ReadRepo.ListSettlements(r.Context(), id, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// listHistory devolve o histórico de mãos encerradas da mesa
func (a *API) listHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rows, err := a.ReadRepo.ListSeriesHistory(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
