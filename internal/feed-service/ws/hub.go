package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub gerencia conexões WebSocket e assinaturas por mesa
// subs: mapeia tableID para o conjunto de conexões inscritas
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// tableID -> set of connections
	subs map[string]map[*websocket.Conn]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*websocket.Conn]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe em mesas e responde a pings
// Cada cliente pode acompanhar múltiplas mesas
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.TableID]; !ok {
				h.subs[msg.TableID] = make(map[*websocket.Conn]struct{})
			}
			h.subs[msg.TableID][conn] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.TableID]; ok {
				delete(m, conn)
				if len(m) == 0 {
					delete(h.subs, msg.TableID)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = conn.WriteJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, conn)
	}
	h.mu.Unlock()
}

// Broadcast envia o payload bruto da liquidação para todos os clientes
// inscritos na mesa correspondente
func (h *Hub) Broadcast(tableID string, payload []byte) {
	h.mu.RLock()
	conns := h.subs[tableID]
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	for c := range conns {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}
