package engine

// Table é a fachada síncrona do engine pra uma mesa: a série ativa, o livro
// de apostas e o histórico de mãos arquivadas. É computação pura, sem I/O e
// sem suspensão; quem embute a mesa num host concorrente garante exclusão
// mútua por mesa (nenhuma escrita pode intercalar com ApplyRoll).
type Table struct {
	id           string
	nextSeriesID uint64
	series       *Series // nil = Idle
	book         *betBook
	history      []ArchivedSeries
}

func NewTable(id string) *Table {
	return &Table{id: id, book: newBetBook()}
}

func (t *Table) ID() string { return t.id }

// Phase devolve PhaseIdle quando não há série ativa.
func (t *Table) Phase() Phase {
	if t.series == nil {
		return PhaseIdle
	}
	return t.series.Phase
}

func (t *Table) Point() int {
	if t.series == nil {
		return 0
	}
	return t.series.Point
}

// CurrentSeries devolve uma cópia da série ativa, se houver.
func (t *Table) CurrentSeries() (Series, bool) {
	if t.series == nil {
		return Series{}, false
	}
	return *t.series, true
}

// History devolve as mãos arquivadas, da mais antiga pra mais recente.
func (t *Table) History() []ArchivedSeries {
	out := make([]ArchivedSeries, len(t.history))
	copy(out, t.history)
	return out
}

// ActiveBets devolve as apostas pendentes de um apostador.
func (t *Table) ActiveBets(bettor string) []Bet {
	return t.book.byBettor(bettor)
}

// StartNewSeries abre uma mão nova. Só é permitido a partir de Idle: o
// chamador precisa encerrar a série corrente explicitamente, nunca há reset
// silencioso.
func (t *Table) StartNewSeries(shooterID string) (uint64, error) {
	if shooterID == "" {
		return 0, ErrNoShooter
	}
	if t.series != nil {
		return 0, ErrSeriesActive
	}
	t.nextSeriesID++
	t.series = newSeries(t.nextSeriesID, shooterID)
	return t.nextSeriesID, nil
}

// EndCurrentSeries encerra a mão administrativamente: todas as apostas
// pendentes voltam como PUSHED (stake devolvida) e a série vai pro histórico.
func (t *Table) EndCurrentSeries() ([]Settlement, error) {
	if t.series == nil {
		return nil, ErrNoActiveSeries
	}

	bets := t.book.sorted()
	out := make([]Settlement, 0, len(bets))
	for _, bet := range bets {
		out = append(out, Settlement{
			Bettor:  bet.Bettor,
			BetType: bet.Type,
			Amount:  bet.Amount,
			Payout:  0,
			Outcome: OutcomePushed,
		})
		t.book.remove(bet.Bettor, bet.Type)
	}

	t.history = append(t.history, t.series.archive())
	t.series = nil
	return out, nil
}

// PlaceBet aceita uma aposta no livro. O escrow da stake já deve ter sido
// confirmado pelo chamador; o engine só valida as precondições do jogo.
func (t *Table) PlaceBet(bettor string, bt BetType, amount int64) error {
	if int(bt) >= NumBetTypes {
		return ErrInvalidBetType
	}
	if bettor == "" {
		return ErrNoBettor
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if t.series == nil {
		return ErrNoActiveSeries
	}

	def := catalog[bt]
	switch def.Category {
	case CategoryOdds:
		return ErrOddsViaPlaceOdds
	case CategoryLine:
		if bt == BetPass || bt == BetDontPass {
			if t.series.Phase != PhaseComeOut {
				return ErrWrongPhase
			}
		} else if t.series.Phase != PhasePoint {
			return ErrWrongPhase
		}
	case CategoryBonus, CategoryRepeater:
		// acumulam desde a primeira rolagem da mão; entrada tardia herdaria
		// progresso que o apostador não pagou pra ver
		if t.series.RollsSeen != 0 {
			return ErrBetsClosed
		}
	}

	return t.book.add(&Bet{
		Bettor:       bettor,
		Type:         bt,
		Amount:       amount,
		PlacedAtRoll: t.series.RollsSeen,
	})
}

// OddsTypeFor mapeia uma aposta de linha pro tipo de odds correspondente.
func OddsTypeFor(base BetType) (BetType, error) {
	switch base {
	case BetPass:
		return BetPassOdds, nil
	case BetDontPass:
		return BetDontPassOdds, nil
	case BetCome:
		return BetComeOdds, nil
	case BetDontCome:
		return BetDontComeOdds, nil
	}
	return 0, ErrNotOddsBase
}

// PlaceOddsBet coloca odds atrás de uma aposta de linha ativa. O ponto é
// capturado agora e fica congelado na aposta (a resolução nunca olha o ponto
// corrente da mesa).
func (t *Table) PlaceOddsBet(bettor string, base BetType, amount int64) error {
	if int(base) >= NumBetTypes {
		return ErrInvalidBetType
	}
	if bettor == "" {
		return ErrNoBettor
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if t.series == nil {
		return ErrNoActiveSeries
	}

	oddsType, err := OddsTypeFor(base)
	if err != nil {
		return err
	}

	baseBet, ok := t.book.get(bettor, base)
	if !ok {
		return ErrBetNotFound
	}

	var snapshot int
	if base == BetPass || base == BetDontPass {
		if t.series.Phase != PhasePoint {
			return ErrNoPointEstablished
		}
		snapshot = t.series.Point
	} else {
		if baseBet.PointSnapshot == 0 {
			return ErrNoPointEstablished
		}
		snapshot = baseBet.PointSnapshot
	}

	return t.book.add(&Bet{
		Bettor:        bettor,
		Type:          oddsType,
		Amount:        amount,
		PointSnapshot: snapshot,
		PlacedAtRoll:  t.series.RollsSeen,
	})
}

// RemoveBet tira uma aposta removível do livro e devolve a stake (PUSHED).
// Linha com ponto estabelecido é contratual e não sai da mesa.
func (t *Table) RemoveBet(bettor string, bt BetType) (Settlement, error) {
	if int(bt) >= NumBetTypes {
		return Settlement{}, ErrInvalidBetType
	}
	bet, ok := t.book.get(bettor, bt)
	if !ok {
		return Settlement{}, ErrBetNotFound
	}

	switch bt {
	case BetPass, BetDontPass:
		if t.series != nil && t.series.Phase == PhasePoint {
			return Settlement{}, ErrBetNotRemovable
		}
	case BetCome, BetDontCome:
		if bet.PointSnapshot != 0 {
			return Settlement{}, ErrBetNotRemovable
		}
	}

	t.book.remove(bettor, bt)
	return Settlement{
		Bettor:  bettor,
		BetType: bt,
		Amount:  bet.Amount,
		Payout:  0,
		Outcome: OutcomePushed,
	}, nil
}

// ApplyRoll avança a série com a rolagem e liquida o livro inteiro, na ordem
// determinística do settlement. No seven-out a série é arquivada com o
// snapshot final dos acumuladores e a mesa volta pra Idle.
func (t *Table) ApplyRoll(die1, die2 int) (RollOutcome, []Settlement, error) {
	if t.series == nil {
		return RollNeutral, nil, ErrNoActiveSeries
	}

	roll := Roll{Die1: die1, Die2: die2}
	if err := roll.Validate(); err != nil {
		return RollNeutral, nil, err
	}

	prePhase, prePoint := t.series.Phase, t.series.Point

	outcome, err := t.series.Apply(roll)
	if err != nil {
		return RollNeutral, nil, err
	}

	results, err := settleRoll(t.book, rollContext{
		roll:     roll,
		total:    roll.Total(),
		outcome:  outcome,
		prePhase: prePhase,
		prePoint: prePoint,
		series:   t.series,
	})
	if err != nil {
		return outcome, nil, err
	}

	if outcome == RollSevenOut {
		t.history = append(t.history, t.series.archive())
		t.series = nil
	}

	return outcome, results, nil
}

// TableSnapshot é a visão somente-leitura da mesa pro caminho de display.
type TableSnapshot struct {
	TableID            string  `json:"table_id"`
	Phase              string  `json:"phase"`
	Point              int     `json:"point"`
	SeriesID           uint64  `json:"series_id,omitempty"`
	ShooterID          string  `json:"shooter_id,omitempty"`
	PointsMadeCount    int     `json:"points_made_count"`
	ConsecutiveWins    int     `json:"consecutive_wins"`
	MaxConsecutiveWins int     `json:"max_consecutive_wins"`
	FirePoints         int     `json:"fire_points"`
	DistinctDoubles    int     `json:"distinct_doubles"`
	RollsSeen          int     `json:"rolls_seen"`
	RollCount          [13]int `json:"roll_count"`
	ActiveBets         int     `json:"active_bets"`
}

func (t *Table) Snapshot() TableSnapshot {
	snap := TableSnapshot{
		TableID:    t.id,
		Phase:      t.Phase().String(),
		ActiveBets: t.book.size(),
	}
	if t.series != nil {
		snap.Point = t.series.Point
		snap.SeriesID = t.series.ID
		snap.ShooterID = t.series.ShooterID
		snap.PointsMadeCount = t.series.PointsMadeCount
		snap.ConsecutiveWins = t.series.ConsecutiveWins
		snap.MaxConsecutiveWins = t.series.MaxConsecutiveWins
		snap.FirePoints = t.series.FirePoints()
		snap.DistinctDoubles = t.series.DistinctDoubles()
		snap.RollsSeen = t.series.RollsSeen
		snap.RollCount = t.series.RollCount
	}
	return snap
}
