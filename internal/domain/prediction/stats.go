package prediction

import "math"

// Stats summarizes one match day's full (unfiltered) record set.
type Stats struct {
	TotalMatches            int
	HighConfidenceMatches   int
	MediumConfidenceMatches int
	CompetitionBreakdown    map[string]int
	CountryBreakdown        map[string]int
	AverageHomeWinChance    int
	OddsRange               OddsRange
}

// OddsRange describes the spread of home win odds across records that
// carry a positive decimal value.
type OddsRange struct {
	Min  float64
	Max  float64
	Mean float64
}

// Summarize derives aggregate statistics from a record set. It is a pure
// function over the slice; cache state plays no part.
func Summarize(records []Record) Stats {
	stats := Stats{
		TotalMatches:         len(records),
		CompetitionBreakdown: make(map[string]int),
		CountryBreakdown:     make(map[string]int),
	}

	chanceSum := 0
	oddsSum := 0.0
	oddsCount := 0
	for _, item := range records {
		chanceSum += item.HomeWinChance
		switch {
		case item.HomeWinChance > 70:
			stats.HighConfidenceMatches++
		case item.HomeWinChance >= 50:
			stats.MediumConfidenceMatches++
		}

		stats.CompetitionBreakdown[item.Competition]++
		if item.Country != "" {
			stats.CountryBreakdown[item.Country]++
		}

		if item.HomeWinOdds == nil || *item.HomeWinOdds <= 0 {
			continue
		}
		odds := *item.HomeWinOdds
		if oddsCount == 0 || odds < stats.OddsRange.Min {
			stats.OddsRange.Min = odds
		}
		if odds > stats.OddsRange.Max {
			stats.OddsRange.Max = odds
		}
		oddsSum += odds
		oddsCount++
	}

	if stats.TotalMatches > 0 {
		stats.AverageHomeWinChance = int(math.Round(float64(chanceSum) / float64(stats.TotalMatches)))
	}
	if oddsCount > 0 {
		stats.OddsRange.Mean = math.Round(oddsSum/float64(oddsCount)*100) / 100
	}

	return stats
}
