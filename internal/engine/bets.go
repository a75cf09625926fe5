package engine

import "sort"

// Bet é uma aposta ativa no livro da mesa. Vale no máximo uma por par
// (bettor, tipo).
type Bet struct {
	Bettor string
	Type   BetType
	Amount int64
	// PointSnapshot é o ponto capturado na colocação (odds) ou na rolagem de
	// viagem (Come/Don't Come); 0 enquanto não houver ponto próprio.
	PointSnapshot int
	// PlacedAtRoll marca em que rolagem da mão a aposta entrou.
	PlacedAtRoll int
}

// Outcome é o desfecho de uma aposta após uma rolagem.
type Outcome uint8

const (
	OutcomeStillActive Outcome = iota
	OutcomeWon
	OutcomeLost
	OutcomePushed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStillActive:
		return "STILL_ACTIVE"
	case OutcomeWon:
		return "WON"
	case OutcomeLost:
		return "LOST"
	case OutcomePushed:
		return "PUSHED"
	}
	return "UNKNOWN"
}

// Settlement é o resultado da liquidação de uma aposta. Payout são os ganhos
// sem a stake: WON devolve stake + Payout, PUSHED devolve a stake, LOST nada.
type Settlement struct {
	Bettor  string
	BetType BetType
	Amount  int64
	Payout  int64
	Outcome Outcome
}

type betKey struct {
	bettor  string
	betType BetType
}

// betBook guarda as apostas pendentes de uma mesa. A iteração é sempre em
// ordem estável (bettor, tipo) pra manter a liquidação determinística.
type betBook struct {
	bets map[betKey]*Bet
}

func newBetBook() *betBook {
	return &betBook{bets: make(map[betKey]*Bet)}
}

func (b *betBook) get(bettor string, bt BetType) (*Bet, bool) {
	bet, ok := b.bets[betKey{bettor, bt}]
	return bet, ok
}

func (b *betBook) add(bet *Bet) error {
	k := betKey{bet.Bettor, bet.Type}
	if _, exists := b.bets[k]; exists {
		return ErrDuplicateBet
	}
	b.bets[k] = bet
	return nil
}

func (b *betBook) remove(bettor string, bt BetType) {
	delete(b.bets, betKey{bettor, bt})
}

func (b *betBook) size() int { return len(b.bets) }

// sorted devolve todas as apostas em ordem estável.
func (b *betBook) sorted() []*Bet {
	out := make([]*Bet, 0, len(b.bets))
	for _, bet := range b.bets {
		out = append(out, bet)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bettor != out[j].Bettor {
			return out[i].Bettor < out[j].Bettor
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// byCategory filtra as apostas das categorias dadas, em ordem estável.
func (b *betBook) byCategory(cats ...Category) []*Bet {
	want := make(map[Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}
	out := make([]*Bet, 0)
	for _, bet := range b.sorted() {
		if want[catalog[bet.Type].Category] {
			out = append(out, bet)
		}
	}
	return out
}

// byBettor devolve cópias das apostas ativas de um apostador.
func (b *betBook) byBettor(bettor string) []Bet {
	out := make([]Bet, 0)
	for _, bet := range b.sorted() {
		if bet.Bettor == bettor {
			out = append(out, *bet)
		}
	}
	return out
}
