package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Draw is the sentinel team code for a drawn outcome or a draw pick.
const Draw = "DRAW"

// Fixture is a scheduled match between two team codes.
// A nil kickoff means the fixture is never closed by time.
type Fixture struct {
	bun.BaseModel `bun:"table:fixtures,alias:f"`

	ID            int        `bun:"id,pk,autoincrement" json:"id"`
	CompetitionID int        `bun:"competition_id,notnull" json:"competitionID"`
	Round         int        `bun:"round,notnull" json:"round"`
	HomeTeam      string     `bun:"home_team,notnull" json:"homeTeam"`
	AwayTeam      string     `bun:"away_team,notnull" json:"awayTeam"`
	Kickoff       *time.Time `bun:"kickoff" json:"kickoff,omitempty"`

	Competition *Competition `bun:"rel:belongs-to,join:competition_id=id" json:"-"`
}

// HasTeam reports whether code is one of the fixture's two team codes or DRAW.
func (f *Fixture) HasTeam(code string) bool {
	return code == f.HomeTeam || code == f.AwayTeam || code == Draw
}
