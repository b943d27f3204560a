package footballapi

import (
	"strings"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

// normalizeMatches maps provider rows into prediction records and applies
// the persistence filter: rows missing a team name or without a positive
// home win chance are dropped.
func normalizeMatches(items []rawMatch, requestedDate string) []prediction.Record {
	out := make([]prediction.Record, 0, len(items))
	for _, item := range items {
		record := normalizeMatch(item, requestedDate)
		if !record.Persistable() {
			continue
		}
		out = append(out, record)
	}
	return out
}

func normalizeMatch(item rawMatch, requestedDate string) prediction.Record {
	record := prediction.Record{
		Date:          matchDate(item.StartDate, requestedDate),
		HomeTeam:      strings.TrimSpace(item.HomeTeam),
		AwayTeam:      strings.TrimSpace(item.AwayTeam),
		HomeWinChance: prediction.ResolveChance(item.Odds.Home, item.Odds.HomeConfidence),
		AwayWinChance: prediction.ResolveChance(item.Odds.Away, item.Odds.AwayConfidence),
		DrawChance:    prediction.ResolveChance(item.Odds.Draw, item.Odds.DrawConfidence),
		MatchTime:     matchTime(item.StartDate),
		Competition:   competitionName(item),
		Country:       strings.TrimSpace(item.Country),
		APISource:     prediction.APISourceFootballAPI,
	}

	if value, ok := prediction.OddsValue(item.Odds.Home); ok {
		record.HomeWinOdds = &value
	}
	if value, ok := prediction.OddsValue(item.Odds.Away); ok {
		record.AwayWinOdds = &value
	}
	if value, ok := prediction.OddsValue(item.Odds.Draw); ok {
		record.DrawOdds = &value
	}

	return record
}

// matchTime extracts the HH:MM component of the provider date-time field.
func matchTime(startDate string) string {
	fields := strings.Fields(strings.TrimSpace(startDate))
	if len(fields) < 2 {
		return prediction.DefaultMatchTime
	}

	clock := fields[1]
	if len(clock) < 5 {
		return prediction.DefaultMatchTime
	}
	clock = clock[:5]
	if clock[2] != ':' || !allDigits(clock[:2]) || !allDigits(clock[3:]) {
		return prediction.DefaultMatchTime
	}
	return clock
}

// matchDate takes the date-only portion of the provider field, falling
// back to the requested query date when the field is malformed.
func matchDate(startDate, requestedDate string) string {
	fields := strings.Fields(strings.TrimSpace(startDate))
	if len(fields) == 0 {
		return requestedDate
	}
	if !prediction.ValidDate(fields[0]) {
		return requestedDate
	}
	return fields[0]
}

// competitionName prefers the full display name over the short cluster
// code, with the sentinel as last resort.
func competitionName(item rawMatch) string {
	if name := strings.TrimSpace(item.CompetitionFull); name != "" {
		return name
	}
	if name := strings.TrimSpace(item.Competition); name != "" {
		return name
	}
	return prediction.UnknownCompetition
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return len(value) > 0
}
