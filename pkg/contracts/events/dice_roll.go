package events

// Evento publicado pelo dice-simulator com o resultado de uma rolagem.
// Cada request_id deve ser liquidado no máximo uma vez; o consumidor
// descarta entregas repetidas.
type DiceRoll struct {
	RequestID string `json:"request_id"`
	TableID   string `json:"table_id"`
	Die1      int    `json:"die1"`
	Die2      int    `json:"die2"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
