package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Margin indicator values carried on a pick. MarginNone is mandatory for
// draw picks; the other two claim a winning-margin band.
const (
	MarginNone    = 0
	MarginClose   = 1
	MarginBlowout = 13
)

// Pick is the current prediction of one participant for one fixture.
// It is the materialized head of the pick event log and must never
// diverge from the latest PickEvent for the same key.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:pk"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	ParticipantID int       `bun:"participant_id,notnull,unique:picks_no_dupes" json:"participantID"`
	FixtureID     int       `bun:"fixture_id,notnull,unique:picks_no_dupes" json:"fixtureID"`
	Team          string    `bun:"team,notnull" json:"team"`
	Margin        int       `bun:"margin,notnull" json:"margin"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// ValidatePickValues checks the team/margin invariants shared by Pick and
// PickEvent: the team must belong to the fixture, draw picks carry
// MarginNone, and non-draw picks carry exactly MarginClose or MarginBlowout.
func ValidatePickValues(f *Fixture, team string, margin int) error {
	if !f.HasTeam(team) {
		return errors.New("team must be one of the fixture team codes or DRAW")
	}
	if team == Draw {
		if margin != MarginNone {
			return errors.New("a draw pick cannot claim a margin")
		}
		return nil
	}
	if margin != MarginClose && margin != MarginBlowout {
		return errors.New("margin must be 1 or 13")
	}
	return nil
}
