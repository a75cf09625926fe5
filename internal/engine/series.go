package engine

import "math/bits"

// Phase é a fase da mão do shooter.
type Phase uint8

const (
	PhaseIdle    Phase = iota // nenhuma série ativa
	PhaseComeOut              // aguardando estabelecer o ponto
	PhasePoint                // ponto estabelecido
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseComeOut:
		return "come_out"
	case PhasePoint:
		return "point"
	}
	return "unknown"
}

// Roll é uma rolagem de dois dados entregue pelo provedor de aleatoriedade.
type Roll struct {
	Die1 int
	Die2 int
}

func (r Roll) Total() int { return r.Die1 + r.Die2 }

// IsDouble indica dados iguais; relevante pros hardways quando o total é
// 4, 6, 8 ou 10 e pro acumulador de duplas.
func (r Roll) IsDouble() bool { return r.Die1 == r.Die2 }

// Validate rejeita faces fora de 1..6 como violação de invariante.
func (r Roll) Validate() error {
	if r.Die1 < 1 || r.Die1 > 6 || r.Die2 < 1 || r.Die2 > 6 {
		return ErrInvalidRoll
	}
	return nil
}

// RollOutcome classifica o efeito de uma rolagem sobre a fase da série.
type RollOutcome uint8

const (
	RollNeutral          RollOutcome = iota // sem transição de fase
	RollNatural                             // 7/11 na saída
	RollCraps                               // 2/3/12 na saída
	RollPointEstablished                    // ponto marcado, fase vira Point
	RollPointMade                           // ponto repetiu, volta pra saída
	RollSevenOut                            // 7 com ponto aberto: fim da mão
)

func (o RollOutcome) String() string {
	switch o {
	case RollNeutral:
		return "neutral"
	case RollNatural:
		return "natural"
	case RollCraps:
		return "craps"
	case RollPointEstablished:
		return "point_established"
	case RollPointMade:
		return "point_made"
	case RollSevenOut:
		return "seven_out"
	}
	return "unknown"
}

// Series acumula o estado de uma mão: fase, ponto e os contadores/máscaras
// de vida inteira da mão exigidos pelas apostas bônus e repeater. Os
// acumuladores só zeram na criação da próxima série, nunca no seven-out.
type Series struct {
	ID        uint64
	ShooterID string
	Phase     Phase
	Point     int // 0 fora da fase Point

	PointsMadeCount    int
	ConsecutiveWins    int
	MaxConsecutiveWins int

	FireMask      uint8  // bits pelos pontos distintos feitos: 4,5,6,8,9,10
	DoublesMask   uint8  // bits pelas duplas distintas: (1,1)..(6,6)
	SmallTallMask uint16 // bits pelos totais não-7 rolados: 2..6, 8..12

	RollCount  [13]int // ocorrências por total 2..12 nesta mão
	PointsMade [11]int // vezes que cada número de ponto foi feito (índices 4..10)

	RollsSeen         int // rolagens da mão inteira
	RollsInPointPhase int // rolagens desde o estabelecimento do ponto corrente
}

func newSeries(id uint64, shooterID string) *Series {
	return &Series{ID: id, ShooterID: shooterID, Phase: PhaseComeOut}
}

// Apply avança a máquina de fases com uma rolagem e devolve a classificação.
// Os acumuladores de mão são atualizados antes da transição, inclusive na
// rolagem do seven-out (o arquivamento é responsabilidade da Table).
func (s *Series) Apply(r Roll) (RollOutcome, error) {
	if err := r.Validate(); err != nil {
		return RollNeutral, err
	}

	total := r.Total()

	// Acumuladores de vida inteira da mão, independentes de fase
	s.RollsSeen++
	s.RollCount[total]++
	if r.IsDouble() {
		s.DoublesMask |= 1 << uint(r.Die1-1)
	}
	if total != 7 {
		s.SmallTallMask |= smallTallBit(total)
	}
	if s.Phase == PhasePoint {
		s.RollsInPointPhase++
	}

	switch s.Phase {
	case PhaseComeOut:
		switch total {
		case 7, 11:
			s.winStreak()
			return RollNatural, nil
		case 2, 3, 12:
			s.ConsecutiveWins = 0
			return RollCraps, nil
		default:
			s.Point = total
			s.Phase = PhasePoint
			s.RollsInPointPhase = 0
			return RollPointEstablished, nil
		}

	case PhasePoint:
		switch total {
		case s.Point:
			s.PointsMadeCount++
			s.PointsMade[total]++
			s.FireMask |= fireBit(total)
			s.winStreak()
			s.Point = 0
			s.Phase = PhaseComeOut
			return RollPointMade, nil
		case 7:
			return RollSevenOut, nil
		default:
			return RollNeutral, nil
		}
	}

	return RollNeutral, ErrNoActiveSeries
}

func (s *Series) winStreak() {
	s.ConsecutiveWins++
	if s.ConsecutiveWins > s.MaxConsecutiveWins {
		s.MaxConsecutiveWins = s.ConsecutiveWins
	}
}

// FirePoints conta os pontos distintos já feitos nesta mão.
func (s *Series) FirePoints() int { return bits.OnesCount8(s.FireMask) }

// DistinctDoubles conta as duplas distintas já roladas nesta mão.
func (s *Series) DistinctDoubles() int { return bits.OnesCount8(s.DoublesMask) }

// MaxPointRepeats devolve quantas vezes o ponto mais repetido foi feito.
func (s *Series) MaxPointRepeats() int {
	max := 0
	for _, n := range pointNumbers {
		if s.PointsMade[n] > max {
			max = s.PointsMade[n]
		}
	}
	return max
}

const (
	smallMask      uint16 = 0x001F // totais 2..6
	tallMask       uint16 = 0x03E0 // totais 8..12
	allMask               = smallMask | tallMask
	allDoublesMask uint8  = 0x3F // duplas (1,1)..(6,6)
)

func (s *Series) SmallComplete() bool      { return s.SmallTallMask&smallMask == smallMask }
func (s *Series) TallComplete() bool       { return s.SmallTallMask&tallMask == tallMask }
func (s *Series) AllComplete() bool        { return s.SmallTallMask&allMask == allMask }
func (s *Series) AllDoublesComplete() bool { return s.DoublesMask&allDoublesMask == allDoublesMask }

// fireBit mapeia um ponto pro seu bit na máscara do Fire.
func fireBit(point int) uint8 {
	switch point {
	case 4:
		return 1 << 0
	case 5:
		return 1 << 1
	case 6:
		return 1 << 2
	case 8:
		return 1 << 3
	case 9:
		return 1 << 4
	case 10:
		return 1 << 5
	}
	return 0
}

// smallTallBit mapeia um total não-7 pro seu bit: 2..6 nos bits 0..4,
// 8..12 nos bits 5..9.
func smallTallBit(total int) uint16 {
	if total >= 2 && total <= 6 {
		return 1 << uint(total-2)
	}
	if total >= 8 && total <= 12 {
		return 1 << uint(total-3)
	}
	return 0
}

// ArchivedSeries é o snapshot final de uma mão, guardado no histórico quando
// o seven-out encerra a série.
type ArchivedSeries struct {
	ID                 uint64
	ShooterID          string
	PointsMadeCount    int
	MaxConsecutiveWins int
	FireMask           uint8
	DoublesMask        uint8
	SmallTallMask      uint16
	RollCount          [13]int
	RollsSeen          int
}

func (s *Series) archive() ArchivedSeries {
	return ArchivedSeries{
		ID:                 s.ID,
		ShooterID:          s.ShooterID,
		PointsMadeCount:    s.PointsMadeCount,
		MaxConsecutiveWins: s.MaxConsecutiveWins,
		FireMask:           s.FireMask,
		DoublesMask:        s.DoublesMask,
		SmallTallMask:      s.SmallTallMask,
		RollCount:          s.RollCount,
		RollsSeen:          s.RollsSeen,
	}
}
