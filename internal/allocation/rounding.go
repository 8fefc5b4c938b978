package allocation

import "math"

// Rounder produces the percentages for count rows after an add or remove.
type Rounder func(count int) []float64

// Strategy names a Rounder so it survives serialization.
type Strategy string

const (
	// StrategyEqual rounds 100/count per row independently. Sums may drift
	// by up to count*0.01.
	StrategyEqual Strategy = "equal"
	// StrategyRemainder gives the last row whatever makes the sum exactly 100.
	StrategyRemainder Strategy = "remainder"
)

// ParseStrategy maps a config value to a strategy, defaulting to equal shares.
func ParseStrategy(s string) Strategy {
	if Strategy(s) == StrategyRemainder {
		return StrategyRemainder
	}
	return StrategyEqual
}

// RounderFor returns the rounder for a strategy.
func RounderFor(s Strategy) Rounder {
	if s == StrategyRemainder {
		return RemainderCorrected
	}
	return EqualShares
}

// EqualShares gives every row round2(100/count).
func EqualShares(count int) []float64 {
	if count <= 0 {
		return nil
	}
	share := Round2(100 / float64(count))
	out := make([]float64, count)
	for i := range out {
		out[i] = share
	}
	return out
}

// RemainderCorrected is EqualShares with the rounding remainder added to the
// last row.
func RemainderCorrected(count int) []float64 {
	out := EqualShares(count)
	if len(out) == 0 {
		return out
	}
	var head float64
	for _, v := range out[:len(out)-1] {
		head += v
	}
	out[len(out)-1] = Round2(100 - head)
	return out
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
