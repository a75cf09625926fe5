package topics

const (
	// Rolagens de dados
	RollRequested = "roll_requested"
	DiceRolls     = "dice_rolls"

	// Liquidação de apostas
	BetsSettled = "bets_settled"

	// DLQs
	DiceRollsDLQ   = "dice_rolls_dlq"
	BetsSettledDLQ = "bets_settled_dlq"
)
