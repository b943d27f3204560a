package prediction

import (
	"math"
	"strconv"
	"strings"
)

// ChanceFromOdds converts a decimal-odds string into an implied win
// probability, rounded to the nearest integer percent. It fails for
// unparsable input and for odds <= 0. Odds below 1 imply more than
// certainty; the result is clamped to 100 so chances stay within 0..100.
func ChanceFromOdds(odds string) (int, bool) {
	value, ok := OddsValue(odds)
	if !ok {
		return 0, false
	}
	chance := int(math.Round(100 / value))
	if chance > 100 {
		chance = 100
	}
	return chance, true
}

// ChanceFromConfidence parses a provider-supplied confidence value that is
// already a percentage.
func ChanceFromConfidence(confidence string) (int, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(confidence), 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(value)), true
}

// ResolveChance applies the odds-first resolution order: prefer the
// odds-derived probability, fall back to the confidence value, and default
// to zero when neither is usable.
func ResolveChance(odds, confidence string) int {
	if chance, ok := ChanceFromOdds(odds); ok {
		return chance
	}
	if chance, ok := ChanceFromConfidence(confidence); ok {
		return chance
	}
	return 0
}

// OddsValue parses a decimal-odds string. Zero and negative odds are
// rejected along with anything non-numeric.
func OddsValue(odds string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(odds), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
