package engine

import "errors"

// Violações de precondição: a chamada do orquestrador era inválida e é
// rejeitada sem mutação de estado.
var (
	ErrInvalidBetType     = errors.New("invalid bet type")
	ErrInvalidAmount      = errors.New("bet amount must be positive")
	ErrDuplicateBet       = errors.New("bettor already has an active bet of this type")
	ErrSeriesActive       = errors.New("a series is already active")
	ErrNoActiveSeries     = errors.New("no active series")
	ErrNoShooter          = errors.New("shooter id required")
	ErrNoBettor           = errors.New("bettor id required")
	ErrBetNotFound        = errors.New("bet not found")
	ErrBetNotRemovable    = errors.New("bet cannot be removed after its point is established")
	ErrNoPointEstablished = errors.New("odds require an established point")
	ErrWrongPhase         = errors.New("bet not allowed in the current phase")
	ErrBetsClosed         = errors.New("bet only allowed before the first roll of the hand")
	ErrOddsViaPlaceOdds   = errors.New("odds bets must go through PlaceOddsBet")
	ErrNotOddsBase        = errors.New("base bet type does not take odds")
)

// Violações de invariante: defeito de um colaborador upstream. Nunca são
// engolidas; o chamador deve tratá-las como falha dura.
var (
	ErrInvalidRoll      = errors.New("invariant: die faces must be in 1..6")
	ErrInvalidPoint     = errors.New("invariant: point must be one of 4,5,6,8,9,10")
	ErrUnknownBetType   = errors.New("invariant: bet type reached settlement without a rule")
	ErrProceduralPayout = errors.New("invariant: procedural bet has no static multiplier")
)
