package prediction

import (
	"strings"
	"time"
)

const (
	// APISourceFootballAPI tags records normalized from the live provider
	// and from its built-in fallback sample set.
	APISourceFootballAPI = "football-prediction-api"

	// UnknownCompetition is the sentinel used when the provider sends no
	// competition name at all.
	UnknownCompetition = "Unknown League"

	// DefaultMatchTime is used when the provider date-time field carries no
	// parseable HH:MM component.
	DefaultMatchTime = "00:00"

	// DateLayout is the calendar-date format every record and query uses.
	DateLayout = "2006-01-02"
)

// Record is one normalized match prediction for a single match day.
// Records are immutable once written: a cache refresh writes a new
// generation, it never edits rows in place.
type Record struct {
	Date          string
	HomeTeam      string
	AwayTeam      string
	HomeWinChance int
	AwayWinChance int
	DrawChance    int
	MatchTime     string
	Competition   string
	Country       string
	HomeWinOdds   *float64
	AwayWinOdds   *float64
	DrawOdds      *float64
	APISource     string
	GenerationID  string
	CachedAt      time.Time
}

// Persistable reports whether the record satisfies the storage invariant:
// both team names present and a strictly positive home win chance.
func (r Record) Persistable() bool {
	return strings.TrimSpace(r.HomeTeam) != "" &&
		strings.TrimSpace(r.AwayTeam) != "" &&
		r.HomeWinChance > 0
}

// ValidDate reports whether value is a real calendar date in YYYY-MM-DD form.
func ValidDate(value string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(value))
	return err == nil
}

// HomeWinThreshold is the exclusive percentage bound for the favorites
// filter.
const HomeWinThreshold = 50

// FilterHomeFavorites keeps only records where the model strictly favors
// the home side. A record sitting exactly at the threshold is excluded.
func FilterHomeFavorites(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, item := range records {
		if item.HomeWinChance > HomeWinThreshold {
			out = append(out, item)
		}
	}
	return out
}

// FilterByTeam keeps records where either team name contains query as a
// case-insensitive substring. An empty query keeps everything.
func FilterByTeam(records []Record, query string) []Record {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, item := range records {
		if strings.Contains(strings.ToLower(item.HomeTeam), needle) ||
			strings.Contains(strings.ToLower(item.AwayTeam), needle) {
			out = append(out, item)
		}
	}
	return out
}
