package models

import "github.com/uptrace/bun"

// Competition groups fixtures and participant enrollments for one season.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:cp"`

	ID     int    `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"name,notnull" json:"name"`
	Season int    `bun:"season,notnull" json:"season"`
}
