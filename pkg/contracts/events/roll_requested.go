package events

// Evento publicado pelo table-service quando o orquestrador pede uma nova
// rolagem ao provedor de aleatoriedade (dice-simulator).
type RollRequested struct {
	RequestID string `json:"request_id"`
	TableID   string `json:"table_id"`
	SeriesID  uint64 `json:"series_id"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
