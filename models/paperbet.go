package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PaperBet is a simulated wager derived from the current pick and the
// odds quote at synthesis time. The odds value is a snapshot: later
// quote changes never touch an already-placed bet.
type PaperBet struct {
	bun.BaseModel `bun:"table:paper_bets,alias:pb"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	Reference     string    `bun:"reference,notnull" json:"reference"`
	ParticipantID int       `bun:"participant_id,notnull,unique:paper_bets_no_dupes" json:"participantID"`
	FixtureID     int       `bun:"fixture_id,notnull,unique:paper_bets_no_dupes" json:"fixtureID"`
	Outcome       string    `bun:"outcome,notnull" json:"outcome"`
	Stake         float64   `bun:"stake,notnull" json:"stake"`
	Odds          float64   `bun:"odds,notnull" json:"odds"`
	PlacedAt      time.Time `bun:"placed_at,notnull" json:"placedAt"`
}
