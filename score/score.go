package score

import "math"

const (
	HintTimeUp  = "Ran out of time"
	HintLowMana = "Not enough mana generated"
	HintVictory = "Congratulations!"
)

// Score holds the inputs of the end-of-level mana evaluation.
type Score struct {
	BoneMass      float64
	TimeRemaining float64
	RequiredMana  float64
}

// Mana is the bone mass multiplied by the seconds left on the clock.
func (s Score) Mana() float64 {
	return s.BoneMass * math.Max(s.TimeRemaining, 0)
}

// Won reports whether the run generated strictly more mana than required.
// A level with no requirement still needs some mana, so an empty klod or an
// expired clock never wins.
func (s Score) Won() bool {
	return s.Mana() > s.RequiredMana
}

func (s Score) Hint() string {
	return hintFor(s.TimeRemaining, s.Won())
}

func hintFor(remaining float64, won bool) string {
	switch {
	case won:
		return HintVictory
	case remaining <= 0:
		return HintTimeUp
	default:
		return HintLowMana
	}
}

// Result is the outcome shown on the level complete screen.
type Result struct {
	Mana      float64
	Won       bool
	Hint      string
	Collected int
}

func (s Score) Result(collected int) Result {
	return Result{Mana: s.Mana(), Won: s.Won(), Hint: s.Hint(), Collected: collected}
}
