package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics agrupa os contadores do table-service. Uma instância por processo,
// registrada no registry default.
type Metrics struct {
	RollsSettled       prometheus.Counter
	BetsResolved       *prometheus.CounterVec // por outcome
	PayoutCents        prometheus.Counter
	DuplicatesRejected prometheus.Counter
	ConsumerErrors     *prometheus.CounterVec // por estágio
}

func New() *Metrics {
	m := &Metrics{
		RollsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "table_rolls_settled_total", Help: "rolagens aplicadas e liquidadas"}),
		BetsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "table_bets_resolved_total", Help: "apostas resolvidas por outcome"}, []string{"outcome"}),
		PayoutCents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "table_payout_cents_total", Help: "centavos pagos em ganhos"}),
		DuplicatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "table_duplicate_rolls_rejected_total", Help: "entregas repetidas de rolagem descartadas"}),
		ConsumerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "table_consumer_errors_total", Help: "erros do consumer por estágio"}, []string{"stage"}),
	}
	prometheus.MustRegister(m.RollsSettled, m.BetsResolved, m.PayoutCents, m.DuplicatesRejected, m.ConsumerErrors)
	return m
}
