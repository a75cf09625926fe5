package tables

import (
	"errors"
	"sync"

	"github.com/radieske/craps-table-poc/internal/engine"
)

var (
	ErrTableExists   = errors.New("table already exists")
	ErrTableNotFound = errors.New("table not found")
)

// refKey identifica uma aposta viva no livro do engine. O engine permite no
// máximo uma aposta por (bettor, betType), então a chave é estável.
type refKey struct {
	Bettor  string
	BetType engine.BetType
}

// Entry é uma mesa hospedada: o engine puro mais o mutex que serializa toda
// mutação (a fronteira de exclusão mútua fica aqui, nunca dentro do engine).
// refs guarda o betId usado como external_ref no escrow da carteira, pra
// amarrar cada liquidação à reserva que a cobre.
type Entry struct {
	mu    sync.Mutex
	table *engine.Table
	refs  map[refKey]string
}

// Do executa fn com exclusividade sobre a mesa.
func (e *Entry) Do(fn func(t *engine.Table)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.table)
}

// TrackBet registra o betId de escrow de uma aposta recém-aceita.
// Chamar só com o lock da Entry (dentro de Do).
func (e *Entry) TrackBet(bettor string, bt engine.BetType, betID string) {
	e.refs[refKey{Bettor: bettor, BetType: bt}] = betID
}

// BetRef devolve o betId de escrow de uma aposta viva; se release for true a
// referência é consumida (a aposta resolveu e saiu do livro).
func (e *Entry) BetRef(bettor string, bt engine.BetType, release bool) (string, bool) {
	k := refKey{Bettor: bettor, BetType: bt}
	id, ok := e.refs[k]
	if ok && release {
		delete(e.refs, k)
	}
	return id, ok
}

// Manager é o registro de mesas do serviço. Criação e lookup são baratos;
// todo o trabalho pesado acontece dentro do lock por mesa.
type Manager struct {
	mu     sync.RWMutex
	tables map[string]*Entry
}

func NewManager() *Manager {
	return &Manager{tables: make(map[string]*Entry)}
}

func (m *Manager) Create(tableID string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[tableID]; ok {
		return nil, ErrTableExists
	}
	e := &Entry{
		table: engine.NewTable(tableID),
		refs:  make(map[refKey]string),
	}
	m.tables[tableID] = e
	return e, nil
}

func (m *Manager) Get(tableID string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.tables[tableID]
	return e, ok
}

func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.tables))
	for id := range m.tables {
		out = append(out, id)
	}
	return out
}
