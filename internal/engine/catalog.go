package engine

// Catálogo estático das 64 apostas da mesa. Ids contíguos 0..63 com
// fronteiras fixas por categoria:
//
//	0..3   linha (Pass, Don't Pass, Come, Don't Come)
//	4      Field
//	5..24  YES/NO (número antes do 7 / 7 antes do número)
//	25..28 Hardways
//	29..32 Odds (sem vantagem da casa)
//	33..42 Bônus multi-rolagem
//	43..53 Próxima rolagem (proposições de uma rolagem, totais 2..12)
//	54..63 Repeater
type BetType uint8

const (
	BetPass BetType = iota // 0
	BetDontPass
	BetCome
	BetDontCome
	BetField // 4

	BetYes2 // 5
	BetYes3
	BetYes4
	BetYes5
	BetYes6
	BetYes8
	BetYes9
	BetYes10
	BetYes11
	BetYes12 // 14

	BetNo2 // 15
	BetNo3
	BetNo4
	BetNo5
	BetNo6
	BetNo8
	BetNo9
	BetNo10
	BetNo11
	BetNo12 // 24

	BetHard4 // 25
	BetHard6
	BetHard8
	BetHard10 // 28

	BetPassOdds // 29
	BetDontPassOdds
	BetComeOdds
	BetDontComeOdds // 32

	BetFire // 33
	BetSmall
	BetTall
	BetAll
	BetHotRoller
	BetRideLine
	BetMuggsy
	BetReplay
	BetDiffDoubles
	BetAllDoubles // 42

	BetNext2 // 43
	BetNext3
	BetNext4
	BetNext5
	BetNext6
	BetNext7
	BetNext8
	BetNext9
	BetNext10
	BetNext11
	BetNext12 // 53

	BetRepeat2 // 54
	BetRepeat3
	BetRepeat4
	BetRepeat5
	BetRepeat6
	BetRepeat8
	BetRepeat9
	BetRepeat10
	BetRepeat11
	BetRepeat12 // 63

	NumBetTypes = 64
)

// Category agrupa apostas com o mesmo ciclo de vida de resolução.
type Category uint8

const (
	CategoryLine Category = iota
	CategoryField
	CategoryYesNo
	CategoryHardway
	CategoryOdds
	CategoryBonus
	CategoryNextRoll
	CategoryRepeater
)

func (c Category) String() string {
	switch c {
	case CategoryLine:
		return "line"
	case CategoryField:
		return "field"
	case CategoryYesNo:
		return "yes_no"
	case CategoryHardway:
		return "hardway"
	case CategoryOdds:
		return "odds"
	case CategoryBonus:
		return "bonus"
	case CategoryNextRoll:
		return "next_roll"
	case CategoryRepeater:
		return "repeater"
	}
	return "unknown"
}

// Multiplier é um multiplicador de ganhos exato (racional). Multiplicadores
// em basis points viram {bp, 100}; odds sem vantagem da casa usam a razão
// exata (ex.: 2:3 => {2, 3}) para não perder precisão.
type Multiplier struct {
	Num int64
	Den int64
}

// Payout calcula os ganhos de uma stake: floor(amount * num / den).
// O resto do arredondamento fica com a casa.
func (m Multiplier) Payout(amount int64) int64 {
	return amount * m.Num / m.Den
}

func bp(v int64) Multiplier { return Multiplier{Num: v, Den: 100} }

// PayoutKind marca como o multiplicador de uma aposta é obtido.
type PayoutKind uint8

const (
	PayoutFixed      PayoutKind = iota // multiplicador único
	PayoutByPoint                      // tabela indexada pelo ponto 4/5/6/8/9/10
	PayoutProcedural                   // o settlement calcula pela série (Fire etc.)
)

// Definition é a entrada imutável do catálogo para um tipo de aposta.
type Definition struct {
	Type     BetType
	Category Category
	Kind     PayoutKind
	Fixed    Multiplier         // válido quando Kind == PayoutFixed
	PerPoint map[int]Multiplier // válido quando Kind == PayoutByPoint
	// Number é o total alvo para YES/NO, NextRoll, Repeater e Hardway; 0 nas demais.
	Number int
	// OneRoll indica resolução garantida na rolagem corrente (Field, NextRoll).
	OneRoll bool
	// HandEnd indica aposta que só pode ser avaliada no seven-out
	// (Fire, Hot Roller, Ride the Line, Muggsy, Replay, Different Doubles).
	HandEnd bool
}

// Números válidos de ponto e de YES/NO/Repeater, na ordem do catálogo.
var (
	pointNumbers  = []int{4, 5, 6, 8, 9, 10}
	boxNumbers    = []int{2, 3, 4, 5, 6, 8, 9, 10, 11, 12}
	hardwayTotals = []int{4, 6, 8, 10}
)

// Multiplicadores YES/NO em basis points: floor(odds verdadeiras x 98).
// Âncoras do jogo original: YES-4 = 196, NO-4 = 49.
var yesBP = map[int]int64{
	2: 588, 3: 294, 4: 196, 5: 147, 6: 117,
	8: 117, 9: 147, 10: 196, 11: 294, 12: 588,
}

var noBP = map[int]int64{
	2: 16, 3: 32, 4: 49, 5: 65, 6: 81,
	8: 81, 9: 65, 10: 49, 11: 32, 12: 16,
}

// Proposições de uma rolagem a ~98% das odds verdadeiras.
var nextRollBP = map[int]int64{
	2: 3430, 3: 1666, 4: 1078, 5: 784, 6: 607, 7: 490,
	8: 607, 9: 784, 10: 1078, 11: 1666, 12: 3430,
}

var hardwayBP = map[int]int64{4: 700, 6: 900, 8: 900, 10: 700}

// Odds verdadeiras do lado Pass/Come e o inverso do lado Don't.
var (
	passOddsByPoint = map[int]Multiplier{
		4: {2, 1}, 5: {3, 2}, 6: {6, 5}, 8: {6, 5}, 9: {3, 2}, 10: {2, 1},
	}
	dontOddsByPoint = map[int]Multiplier{
		4: {1, 2}, 5: {2, 3}, 6: {5, 6}, 8: {5, 6}, 9: {2, 3}, 10: {1, 2},
	}
)

// Repeater: alvo de repetições e multiplicador por número.
var (
	repeaterTarget = map[int]int{
		2: 2, 3: 3, 4: 4, 5: 5, 6: 6,
		8: 6, 9: 5, 10: 4, 11: 3, 12: 2,
	}
	repeaterBP = map[int]int64{
		2: 4000, 3: 5000, 4: 6500, 5: 8000, 6: 9000,
		8: 9000, 9: 8000, 10: 6500, 11: 5000, 12: 4000,
	}
)

// Tabelas dos bônus procedurais, indexadas pelo acumulador da série no
// momento da avaliação. Abaixo do menor degrau a aposta perde.
var (
	// Fire: pontos distintos feitos na mão, avaliado no seven-out
	// (paga na hora quando o sexto ponto fecha a máscara).
	fireSchedule = []struct {
		Points int
		Mult   Multiplier
	}{
		{6, Multiplier{999, 1}},
		{5, Multiplier{249, 1}},
		{4, Multiplier{24, 1}},
	}

	// Ride the Line: total de pontos feitos na mão.
	rideLineSchedule = []struct {
		Points int
		Mult   Multiplier
	}{
		{6, Multiplier{100, 1}},
		{5, Multiplier{25, 1}},
		{4, Multiplier{10, 1}},
		{3, Multiplier{4, 1}},
		{2, Multiplier{2, 1}},
		{1, Multiplier{1, 1}},
	}

	// Hot Roller: maior sequência de vitórias de linha do shooter.
	hotRollerSchedule = []struct {
		Streak int
		Mult   Multiplier
	}{
		{7, Multiplier{100, 1}},
		{5, Multiplier{25, 1}},
		{3, Multiplier{5, 1}},
		{2, Multiplier{2, 1}},
	}

	// Different Doubles: duplas distintas roladas na mão.
	diffDoublesSchedule = []struct {
		Doubles int
		Mult    Multiplier
	}{
		{6, Multiplier{30, 1}},
		{5, Multiplier{15, 1}},
		{4, Multiplier{8, 1}},
		{3, Multiplier{4, 1}},
	}

	multSmall       = Multiplier{30, 1}
	multTall        = Multiplier{30, 1}
	multAll         = Multiplier{150, 1}
	multAllDoubles  = Multiplier{100, 1}
	multReplay      = Multiplier{120, 1} // algum ponto feito 3+ vezes na mesma mão
	multMuggsySeven = Multiplier{3, 1}   // 7 na saída
	multMuggsyOut   = Multiplier{5, 1}   // seven-out na primeira rolagem após o ponto
	multEven        = Multiplier{1, 1}
)

// catalog é indexado por BetType; montado uma vez na carga do pacote.
var catalog [NumBetTypes]Definition

func init() {
	for _, bt := range []BetType{BetPass, BetDontPass, BetCome, BetDontCome} {
		catalog[bt] = Definition{Type: bt, Category: CategoryLine, Kind: PayoutFixed, Fixed: multEven}
	}

	// Field resolve toda rolagem; o multiplicador depende do total e é
	// resolvido pelo settlement via FieldMultiplier.
	catalog[BetField] = Definition{Type: BetField, Category: CategoryField, Kind: PayoutProcedural, OneRoll: true}

	for i, n := range boxNumbers {
		yes := BetYes2 + BetType(i)
		catalog[yes] = Definition{Type: yes, Category: CategoryYesNo, Kind: PayoutFixed, Fixed: bp(yesBP[n]), Number: n}
		no := BetNo2 + BetType(i)
		catalog[no] = Definition{Type: no, Category: CategoryYesNo, Kind: PayoutFixed, Fixed: bp(noBP[n]), Number: n}
	}

	for i, n := range hardwayTotals {
		bt := BetHard4 + BetType(i)
		catalog[bt] = Definition{Type: bt, Category: CategoryHardway, Kind: PayoutFixed, Fixed: bp(hardwayBP[n]), Number: n}
	}

	catalog[BetPassOdds] = Definition{Type: BetPassOdds, Category: CategoryOdds, Kind: PayoutByPoint, PerPoint: passOddsByPoint}
	catalog[BetDontPassOdds] = Definition{Type: BetDontPassOdds, Category: CategoryOdds, Kind: PayoutByPoint, PerPoint: dontOddsByPoint}
	catalog[BetComeOdds] = Definition{Type: BetComeOdds, Category: CategoryOdds, Kind: PayoutByPoint, PerPoint: passOddsByPoint}
	catalog[BetDontComeOdds] = Definition{Type: BetDontComeOdds, Category: CategoryOdds, Kind: PayoutByPoint, PerPoint: dontOddsByPoint}

	bonus := func(bt BetType, kind PayoutKind, fixed Multiplier, handEnd bool) {
		catalog[bt] = Definition{Type: bt, Category: CategoryBonus, Kind: kind, Fixed: fixed, HandEnd: handEnd}
	}
	bonus(BetFire, PayoutProcedural, Multiplier{}, true)
	bonus(BetSmall, PayoutFixed, multSmall, false)
	bonus(BetTall, PayoutFixed, multTall, false)
	bonus(BetAll, PayoutFixed, multAll, false)
	bonus(BetHotRoller, PayoutProcedural, Multiplier{}, true)
	bonus(BetRideLine, PayoutProcedural, Multiplier{}, true)
	bonus(BetMuggsy, PayoutProcedural, Multiplier{}, true)
	bonus(BetReplay, PayoutFixed, multReplay, true)
	bonus(BetDiffDoubles, PayoutProcedural, Multiplier{}, true)
	bonus(BetAllDoubles, PayoutFixed, multAllDoubles, false)

	for i, n := range []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12} {
		bt := BetNext2 + BetType(i)
		catalog[bt] = Definition{Type: bt, Category: CategoryNextRoll, Kind: PayoutFixed, Fixed: bp(nextRollBP[n]), Number: n, OneRoll: true}
	}

	for i, n := range boxNumbers {
		bt := BetRepeat2 + BetType(i)
		catalog[bt] = Definition{Type: bt, Category: CategoryRepeater, Kind: PayoutFixed, Fixed: bp(repeaterBP[n]), Number: n}
	}
}

// Lookup devolve a definição imutável de um tipo de aposta.
// Ids fora de 0..63 são violação de precondição do chamador.
func Lookup(bt BetType) (Definition, error) {
	if int(bt) >= NumBetTypes {
		return Definition{}, ErrInvalidBetType
	}
	return catalog[bt], nil
}

// PayoutMultiplier resolve o multiplicador de uma aposta de tabela fixa ou
// por ponto. Apostas procedurais não têm multiplicador estático.
func PayoutMultiplier(bt BetType, point int) (Multiplier, error) {
	def, err := Lookup(bt)
	if err != nil {
		return Multiplier{}, err
	}
	switch def.Kind {
	case PayoutFixed:
		return def.Fixed, nil
	case PayoutByPoint:
		m, ok := def.PerPoint[point]
		if !ok {
			return Multiplier{}, ErrInvalidPoint
		}
		return m, nil
	default:
		return Multiplier{}, ErrProceduralPayout
	}
}

// FieldMultiplier devolve o multiplicador do Field para um total, ou
// ok=false quando o total perde (5, 6, 7, 8).
func FieldMultiplier(total int) (Multiplier, bool) {
	switch total {
	case 2:
		return Multiplier{2, 1}, true
	case 12:
		return Multiplier{3, 1}, true
	case 3, 4, 9, 10, 11:
		return Multiplier{1, 1}, true
	}
	return Multiplier{}, false
}

// RepeaterTarget devolve o número alvo e quantas repetições ele exige.
func RepeaterTarget(bt BetType) (number, count int) {
	n := catalog[bt].Number
	return n, repeaterTarget[n]
}

// fireMultiplier avalia a tabela do Fire pelos pontos distintos feitos.
func fireMultiplier(distinctPoints int) (Multiplier, bool) {
	for _, s := range fireSchedule {
		if distinctPoints >= s.Points {
			return s.Mult, true
		}
	}
	return Multiplier{}, false
}

func rideLineMultiplier(pointsMade int) (Multiplier, bool) {
	for _, s := range rideLineSchedule {
		if pointsMade >= s.Points {
			return s.Mult, true
		}
	}
	return Multiplier{}, false
}

func hotRollerMultiplier(maxStreak int) (Multiplier, bool) {
	for _, s := range hotRollerSchedule {
		if maxStreak >= s.Streak {
			return s.Mult, true
		}
	}
	return Multiplier{}, false
}

func diffDoublesMultiplier(distinctDoubles int) (Multiplier, bool) {
	for _, s := range diffDoublesSchedule {
		if distinctDoubles >= s.Doubles {
			return s.Mult, true
		}
	}
	return Multiplier{}, false
}
