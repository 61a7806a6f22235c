package models

import (
	"errors"

	"github.com/uptrace/bun"
)

// Margin band labels for a winning margin.
const (
	BandClose   = "1-12"
	BandBlowout = "13+"
)

// Result is the recorded outcome of a fixture. At most one exists per
// fixture and its presence permanently locks the fixture to new picks.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID         int     `bun:"id,pk,autoincrement" json:"id"`
	FixtureID  int     `bun:"fixture_id,notnull,unique:results_no_dupes" json:"fixtureID"`
	Winner     string  `bun:"winner,notnull" json:"winner"`
	MarginBand *string `bun:"margin_band" json:"marginBand,omitempty"`
}

// Validate checks the winner/margin invariants against the fixture.
func (r *Result) Validate(f *Fixture) error {
	if !f.HasTeam(r.Winner) {
		return errors.New("winner must be one of the fixture team codes or DRAW")
	}
	if r.Winner == Draw && r.MarginBand != nil {
		return errors.New("a drawn result cannot carry a margin band")
	}
	if r.MarginBand != nil && *r.MarginBand != BandClose && *r.MarginBand != BandBlowout {
		return errors.New("margin band must be 1-12 or 13+")
	}
	return nil
}
