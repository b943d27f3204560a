package footballapi

import "github.com/riskibarqy/match-predictor/internal/domain/prediction"

// sampleMatches is the built-in offline data set. It is served whenever the
// source runs without credentials and whenever a live fetch fails, stamped
// with the requested date so downstream filtering behaves the same way as
// for live data.
var sampleMatches = []rawMatch{
	{
		HomeTeam:        "Real Soacha",
		AwayTeam:        "Llaneros",
		StartDate:       "2025-08-12 17:00:00",
		Competition:     "CO PA",
		CompetitionFull: "Categoría Primera A",
		Country:         "Colombia",
		Odds:            rawOdds{Home: "4.75", Draw: "3.40", Away: "1.95"},
	},
	{
		HomeTeam:        "Deportivo Cali",
		AwayTeam:        "Boyacá Chicó",
		StartDate:       "2025-08-12 19:30:00",
		Competition:     "CO PA",
		CompetitionFull: "Categoría Primera A",
		Country:         "Colombia",
		Odds:            rawOdds{Home: "1.80", Draw: "3.50", Away: "4.20"},
	},
	{
		HomeTeam:        "Atlético Nacional",
		AwayTeam:        "Envigado",
		StartDate:       "2025-08-12 20:00:00",
		Competition:     "CO PA",
		CompetitionFull: "Categoría Primera A",
		Country:         "Colombia",
		Odds:            rawOdds{Home: "1.01", Draw: "9.00", Away: "15.00"},
	},
	{
		HomeTeam:        "Junior",
		AwayTeam:        "Once Caldas",
		StartDate:       "2025-08-12 21:45:00",
		Competition:     "CO PA",
		CompetitionFull: "Categoría Primera A",
		Country:         "Colombia",
		Odds:            rawOdds{Home: "2.50", Draw: "3.10", Away: "2.90"},
	},
	{
		HomeTeam:        "Millonarios",
		AwayTeam:        "Santa Fe",
		StartDate:       "2025-08-12 22:00:00",
		Competition:     "CO PA",
		CompetitionFull: "Categoría Primera A",
		Country:         "Colombia",
		Odds:            rawOdds{Home: "2.80", Draw: "3.00", Away: "2.60"},
	},
}

// samplePredictions normalizes the sample set for the requested date. The
// provider start date inside the sample rows only supplies the kickoff
// time; the calendar date always follows the query.
func samplePredictions(date string) []prediction.Record {
	out := normalizeMatches(sampleMatches, date)
	for i := range out {
		out[i].Date = date
	}
	return out
}
