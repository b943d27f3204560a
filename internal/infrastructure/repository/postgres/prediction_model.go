package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

type predictionTableModel struct {
	ID            int64           `db:"id"`
	MatchDate     string          `db:"match_date"`
	HomeTeam      string          `db:"home_team"`
	AwayTeam      string          `db:"away_team"`
	HomeWinChance int             `db:"home_win_chance"`
	AwayWinChance int             `db:"away_win_chance"`
	DrawChance    int             `db:"draw_chance"`
	MatchTime     string          `db:"match_time"`
	Competition   string          `db:"competition"`
	Country       string          `db:"country"`
	HomeWinOdds   sql.NullFloat64 `db:"home_win_odds"`
	AwayWinOdds   sql.NullFloat64 `db:"away_win_odds"`
	DrawOdds      sql.NullFloat64 `db:"draw_odds"`
	APISource     string          `db:"api_source"`
	GenerationID  string          `db:"generation_id"`
	CachedAt      time.Time       `db:"cached_at"`
}

// predictionInsertModel mirrors predictionTableModel without the serial
// primary key so it can feed the batch insert builder directly.
type predictionInsertModel struct {
	MatchDate     string    `db:"match_date"`
	HomeTeam      string    `db:"home_team"`
	AwayTeam      string    `db:"away_team"`
	HomeWinChance int       `db:"home_win_chance"`
	AwayWinChance int       `db:"away_win_chance"`
	DrawChance    int       `db:"draw_chance"`
	MatchTime     string    `db:"match_time"`
	Competition   string    `db:"competition"`
	Country       string    `db:"country"`
	HomeWinOdds   *float64  `db:"home_win_odds"`
	AwayWinOdds   *float64  `db:"away_win_odds"`
	DrawOdds      *float64  `db:"draw_odds"`
	APISource     string    `db:"api_source"`
	GenerationID  string    `db:"generation_id"`
	CachedAt      time.Time `db:"cached_at"`
}

func (m predictionTableModel) toDomain() prediction.Record {
	return prediction.Record{
		Date:          m.MatchDate,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		HomeWinChance: m.HomeWinChance,
		AwayWinChance: m.AwayWinChance,
		DrawChance:    m.DrawChance,
		MatchTime:     m.MatchTime,
		Competition:   m.Competition,
		Country:       m.Country,
		HomeWinOdds:   nullFloatToPtr(m.HomeWinOdds),
		AwayWinOdds:   nullFloatToPtr(m.AwayWinOdds),
		DrawOdds:      nullFloatToPtr(m.DrawOdds),
		APISource:     m.APISource,
		GenerationID:  m.GenerationID,
		CachedAt:      m.CachedAt,
	}
}

func insertModelFromDomain(record prediction.Record, generationID string, cachedAt time.Time) predictionInsertModel {
	return predictionInsertModel{
		MatchDate:     record.Date,
		HomeTeam:      record.HomeTeam,
		AwayTeam:      record.AwayTeam,
		HomeWinChance: record.HomeWinChance,
		AwayWinChance: record.AwayWinChance,
		DrawChance:    record.DrawChance,
		MatchTime:     record.MatchTime,
		Competition:   record.Competition,
		Country:       record.Country,
		HomeWinOdds:   record.HomeWinOdds,
		AwayWinOdds:   record.AwayWinOdds,
		DrawOdds:      record.DrawOdds,
		APISource:     record.APISource,
		GenerationID:  generationID,
		CachedAt:      cachedAt,
	}
}

func nullFloatToPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
