package models

import "github.com/uptrace/bun"

// Participant is a competition entrant with a bcrypt-hashed password.
type Participant struct {
	bun.BaseModel `bun:"table:participants,alias:p"`

	ID            int    `bun:"id,pk,autoincrement" json:"id"`
	Username      string `bun:"username,notnull,unique" json:"username"`
	Password      string `bun:"password,notnull" json:"-"`
	DisplayName   string `bun:"display_name,notnull" json:"displayName"`
	CompetitionID int    `bun:"competition_id,notnull" json:"competitionID"`
}
