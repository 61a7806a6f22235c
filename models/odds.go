package models

import "github.com/uptrace/bun"

// Outcome labels for paper-bet odds. Each quote row carries all five.
const (
	OutcomeDraw        = "draw"
	OutcomeHomeClose   = "home_1_12"
	OutcomeHomeBlowout = "home_13_plus"
	OutcomeAwayClose   = "away_1_12"
	OutcomeAwayBlowout = "away_13_plus"
)

// OddsQuote holds the published decimal odds for a fixture's five
// bettable outcomes. Supplied by external loads; read-only to the engine.
type OddsQuote struct {
	bun.BaseModel `bun:"table:odds_quotes,alias:oq"`

	ID          int     `bun:"id,pk,autoincrement" json:"id"`
	FixtureID   int     `bun:"fixture_id,notnull,unique:odds_no_dupes" json:"fixtureID"`
	Draw        float64 `bun:"draw,notnull" json:"draw"`
	HomeClose   float64 `bun:"home_1_12,notnull" json:"home_1_12"`
	HomeBlowout float64 `bun:"home_13_plus,notnull" json:"home_13_plus"`
	AwayClose   float64 `bun:"away_1_12,notnull" json:"away_1_12"`
	AwayBlowout float64 `bun:"away_13_plus,notnull" json:"away_13_plus"`
}

// Quote returns the odds value for an outcome label, false if the label
// is unknown.
func (q *OddsQuote) Quote(outcome string) (float64, bool) {
	switch outcome {
	case OutcomeDraw:
		return q.Draw, true
	case OutcomeHomeClose:
		return q.HomeClose, true
	case OutcomeHomeBlowout:
		return q.HomeBlowout, true
	case OutcomeAwayClose:
		return q.AwayClose, true
	case OutcomeAwayBlowout:
		return q.AwayBlowout, true
	}
	return 0, false
}
