package footballapi

// matchesEnvelope is the provider's top-level response shape.
type matchesEnvelope struct {
	Data []rawMatch `json:"data"`
}

// rawMatch is one provider match row before normalization. StartDate is a
// combined "YYYY-MM-DD HH:MM:SS" value; odds are string-encoded decimals
// and the confidence fields are optional pre-computed percentages.
type rawMatch struct {
	HomeTeam        string  `json:"home_team"`
	AwayTeam        string  `json:"away_team"`
	StartDate       string  `json:"start_date"`
	Competition     string  `json:"competition_cluster"`
	CompetitionFull string  `json:"competition_full"`
	Country         string  `json:"country"`
	Odds            rawOdds `json:"odds"`
}

type rawOdds struct {
	Home           string `json:"1"`
	Draw           string `json:"X"`
	Away           string `json:"2"`
	HomeConfidence string `json:"1_confidence"`
	DrawConfidence string `json:"X_confidence"`
	AwayConfidence string `json:"2_confidence"`
}
