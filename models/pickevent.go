package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PickEvent is one successful submission in the append-only pick log.
// Rows are never updated or deleted; withdrawal removes the current Pick
// but leaves its events behind.
type PickEvent struct {
	bun.BaseModel `bun:"table:pick_events,alias:pe"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	ParticipantID int       `bun:"participant_id,notnull" json:"participantID"`
	FixtureID     int       `bun:"fixture_id,notnull" json:"fixtureID"`
	Team          string    `bun:"team,notnull" json:"team"`
	Margin        int       `bun:"margin,notnull" json:"margin"`
	SubmittedBy   string    `bun:"submitted_by,notnull" json:"submittedBy"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
}
