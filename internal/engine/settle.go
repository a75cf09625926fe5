package engine

// rollContext carrega tudo que as regras de resolução precisam: a rolagem,
// a classificação dela e o estado da série já atualizado, além da fase/ponto
// capturados antes da rolagem (linha resolve contra o estado pré-rolagem).
type rollContext struct {
	roll     Roll
	total    int
	outcome  RollOutcome
	prePhase Phase
	prePoint int
	series   *Series
}

// settleRoll resolve todas as apostas pendentes contra uma rolagem, na ordem
// determinística exigida pra reprodutibilidade:
//
//  1. uma rolagem (NextRoll, Field) e hardways
//  2. linha (Pass, Don't Pass, Come, Don't Come)
//  3. YES/NO
//  4. Odds
//  5. Bônus
//  6. Repeater
//
// Apostas resolvidas saem do livro; as demais entram no resultado como
// STILL_ACTIVE e persistem inalteradas.
func settleRoll(book *betBook, ctx rollContext) ([]Settlement, error) {
	results := make([]Settlement, 0, book.size())

	passes := [][]Category{
		{CategoryNextRoll, CategoryField, CategoryHardway},
		{CategoryLine},
		{CategoryYesNo},
		{CategoryOdds},
		{CategoryBonus},
		{CategoryRepeater},
	}

	for _, cats := range passes {
		for _, bet := range book.byCategory(cats...) {
			outcome, payout, err := evalBet(bet, ctx)
			if err != nil {
				return nil, err
			}
			results = append(results, Settlement{
				Bettor:  bet.Bettor,
				BetType: bet.Type,
				Amount:  bet.Amount,
				Payout:  payout,
				Outcome: outcome,
			})
			if outcome != OutcomeStillActive {
				book.remove(bet.Bettor, bet.Type)
			}
		}
	}

	return results, nil
}

// evalBet aplica a regra de resolução da categoria da aposta. Um tipo sem
// regra é defeito de integração e sobe como ErrUnknownBetType, nunca como
// "resolvida com zero".
func evalBet(bet *Bet, ctx rollContext) (Outcome, int64, error) {
	def := catalog[bet.Type]
	switch def.Category {
	case CategoryNextRoll:
		return evalNextRoll(bet, def, ctx)
	case CategoryField:
		return evalField(bet, ctx)
	case CategoryHardway:
		return evalHardway(bet, def, ctx)
	case CategoryLine:
		return evalLine(bet, ctx)
	case CategoryYesNo:
		return evalYesNo(bet, def, ctx)
	case CategoryOdds:
		return evalOdds(bet, def, ctx)
	case CategoryBonus:
		return evalBonus(bet, def, ctx)
	case CategoryRepeater:
		return evalRepeater(bet, def, ctx)
	}
	return OutcomeStillActive, 0, ErrUnknownBetType
}

// Proposições de uma rolagem: sempre resolvem agora, nunca carregam.
func evalNextRoll(bet *Bet, def Definition, ctx rollContext) (Outcome, int64, error) {
	if ctx.total == def.Number {
		return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
	}
	return OutcomeLost, 0, nil
}

func evalField(bet *Bet, ctx rollContext) (Outcome, int64, error) {
	if m, ok := FieldMultiplier(ctx.total); ok {
		return OutcomeWon, m.Payout(bet.Amount), nil
	}
	return OutcomeLost, 0, nil
}

// Hardway: ganha só na dupla exata, perde na versão easy do mesmo total ou
// em qualquer 7, e não é afetado por rolagens alheias.
func evalHardway(bet *Bet, def Definition, ctx rollContext) (Outcome, int64, error) {
	switch {
	case ctx.total == def.Number && ctx.roll.IsDouble():
		return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
	case ctx.total == 7:
		return OutcomeLost, 0, nil
	case ctx.total == def.Number:
		return OutcomeLost, 0, nil
	}
	return OutcomeStillActive, 0, nil
}

// Linha: Pass/Don't Pass contra a fase/ponto pré-rolagem da mesa;
// Come/Don't Come contra o ponto próprio capturado na rolagem de viagem.
// O 12 é barrado pro lado Don't na saída (sem ação, a aposta fica de pé).
func evalLine(bet *Bet, ctx rollContext) (Outcome, int64, error) {
	switch bet.Type {
	case BetPass:
		if ctx.prePhase == PhaseComeOut {
			switch ctx.outcome {
			case RollNatural:
				return OutcomeWon, multEven.Payout(bet.Amount), nil
			case RollCraps:
				return OutcomeLost, 0, nil
			case RollPointEstablished:
				bet.PointSnapshot = ctx.total
			}
			return OutcomeStillActive, 0, nil
		}
		switch ctx.outcome {
		case RollPointMade:
			return OutcomeWon, multEven.Payout(bet.Amount), nil
		case RollSevenOut:
			return OutcomeLost, 0, nil
		}
		return OutcomeStillActive, 0, nil

	case BetDontPass:
		if ctx.prePhase == PhaseComeOut {
			switch ctx.total {
			case 2, 3:
				return OutcomeWon, multEven.Payout(bet.Amount), nil
			case 7, 11:
				return OutcomeLost, 0, nil
			case 12:
				return OutcomeStillActive, 0, nil // bar 12
			}
			bet.PointSnapshot = ctx.total
			return OutcomeStillActive, 0, nil
		}
		switch ctx.outcome {
		case RollSevenOut:
			return OutcomeWon, multEven.Payout(bet.Amount), nil
		case RollPointMade:
			return OutcomeLost, 0, nil
		}
		return OutcomeStillActive, 0, nil

	case BetCome:
		if bet.PointSnapshot == 0 {
			// rolagem de viagem
			switch ctx.total {
			case 7, 11:
				return OutcomeWon, multEven.Payout(bet.Amount), nil
			case 2, 3, 12:
				return OutcomeLost, 0, nil
			}
			bet.PointSnapshot = ctx.total
			return OutcomeStillActive, 0, nil
		}
		switch ctx.total {
		case bet.PointSnapshot:
			return OutcomeWon, multEven.Payout(bet.Amount), nil
		case 7:
			return OutcomeLost, 0, nil
		}
		return OutcomeStillActive, 0, nil

	case BetDontCome:
		if bet.PointSnapshot == 0 {
			switch ctx.total {
			case 2, 3:
				return OutcomeWon, multEven.Payout(bet.Amount), nil
			case 7, 11:
				return OutcomeLost, 0, nil
			case 12:
				return OutcomeStillActive, 0, nil // bar 12
			}
			bet.PointSnapshot = ctx.total
			return OutcomeStillActive, 0, nil
		}
		switch ctx.total {
		case 7:
			return OutcomeWon, multEven.Payout(bet.Amount), nil
		case bet.PointSnapshot:
			return OutcomeLost, 0, nil
		}
		return OutcomeStillActive, 0, nil
	}

	return OutcomeStillActive, 0, ErrUnknownBetType
}

// YES-N ganha quando N sai antes do 7; NO-N é o espelho.
func evalYesNo(bet *Bet, def Definition, ctx rollContext) (Outcome, int64, error) {
	yes := bet.Type <= BetYes12
	if yes {
		switch ctx.total {
		case def.Number:
			return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
		case 7:
			return OutcomeLost, 0, nil
		}
		return OutcomeStillActive, 0, nil
	}
	switch ctx.total {
	case 7:
		return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
	case def.Number:
		return OutcomeLost, 0, nil
	}
	return OutcomeStillActive, 0, nil
}

// Odds: mesmos gatilhos da aposta base, sempre avaliadas contra o ponto
// capturado na colocação, nunca contra o ponto corrente da mesa.
func evalOdds(bet *Bet, def Definition, ctx rollContext) (Outcome, int64, error) {
	m, ok := def.PerPoint[bet.PointSnapshot]
	if !ok {
		return OutcomeStillActive, 0, ErrInvalidPoint
	}

	dark := bet.Type == BetDontPassOdds || bet.Type == BetDontComeOdds
	if dark {
		switch ctx.total {
		case 7:
			return OutcomeWon, m.Payout(bet.Amount), nil
		case bet.PointSnapshot:
			return OutcomeLost, 0, nil
		}
		return OutcomeStillActive, 0, nil
	}
	switch ctx.total {
	case bet.PointSnapshot:
		return OutcomeWon, m.Payout(bet.Amount), nil
	case 7:
		return OutcomeLost, 0, nil
	}
	return OutcomeStillActive, 0, nil
}

// Bônus: inspeciona as máscaras/contadores da série já atualizada.
// Small/Tall/All e All Doubles perdem em qualquer 7; Fire, Hot Roller,
// Ride the Line, Muggsy, Replay e Different Doubles só fecham no seven-out.
func evalBonus(bet *Bet, def Definition, ctx rollContext) (Outcome, int64, error) {
	s := ctx.series
	sevenOut := ctx.outcome == RollSevenOut

	switch bet.Type {
	case BetSmall:
		if s.SmallComplete() {
			return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
		}
		if ctx.total == 7 {
			return OutcomeLost, 0, nil
		}

	case BetTall:
		if s.TallComplete() {
			return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
		}
		if ctx.total == 7 {
			return OutcomeLost, 0, nil
		}

	case BetAll:
		if s.AllComplete() {
			return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
		}
		if ctx.total == 7 {
			return OutcomeLost, 0, nil
		}

	case BetAllDoubles:
		if s.AllDoublesComplete() {
			return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
		}
		if ctx.total == 7 {
			return OutcomeLost, 0, nil
		}

	case BetFire:
		// o sexto ponto fecha a máscara: paga na hora
		if ctx.outcome == RollPointMade && s.FirePoints() == 6 {
			m, _ := fireMultiplier(6)
			return OutcomeWon, m.Payout(bet.Amount), nil
		}
		if sevenOut {
			if m, ok := fireMultiplier(s.FirePoints()); ok {
				return OutcomeWon, m.Payout(bet.Amount), nil
			}
			return OutcomeLost, 0, nil
		}

	case BetHotRoller:
		if sevenOut {
			if m, ok := hotRollerMultiplier(s.MaxConsecutiveWins); ok {
				return OutcomeWon, m.Payout(bet.Amount), nil
			}
			return OutcomeLost, 0, nil
		}

	case BetRideLine:
		if sevenOut {
			if m, ok := rideLineMultiplier(s.PointsMadeCount); ok {
				return OutcomeWon, m.Payout(bet.Amount), nil
			}
			return OutcomeLost, 0, nil
		}

	case BetMuggsy:
		if ctx.outcome == RollNatural && ctx.total == 7 {
			return OutcomeWon, multMuggsySeven.Payout(bet.Amount), nil
		}
		if sevenOut {
			if s.RollsInPointPhase == 1 {
				return OutcomeWon, multMuggsyOut.Payout(bet.Amount), nil
			}
			return OutcomeLost, 0, nil
		}

	case BetReplay:
		if sevenOut {
			if s.MaxPointRepeats() >= 3 {
				return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
			}
			return OutcomeLost, 0, nil
		}

	case BetDiffDoubles:
		if sevenOut {
			if m, ok := diffDoublesMultiplier(s.DistinctDoubles()); ok {
				return OutcomeWon, m.Payout(bet.Amount), nil
			}
			return OutcomeLost, 0, nil
		}

	default:
		return OutcomeStillActive, 0, ErrUnknownBetType
	}

	return OutcomeStillActive, 0, nil
}

// Repeater: o número alvo precisa repetir a contagem exigida antes de
// qualquer 7.
func evalRepeater(bet *Bet, def Definition, ctx rollContext) (Outcome, int64, error) {
	if ctx.total == 7 {
		return OutcomeLost, 0, nil
	}
	number, target := RepeaterTarget(bet.Type)
	if ctx.total == number && ctx.series.RollCount[number] >= target {
		return OutcomeWon, def.Fixed.Payout(bet.Amount), nil
	}
	return OutcomeStillActive, 0, nil
}
