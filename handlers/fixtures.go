package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// fixtureRow is a flat scan target for the fixture join query.
type fixtureRow struct {
	// fixtures table (alias f)
	ID       int        `bun:"id"`
	Round    int        `bun:"round"`
	HomeTeam string     `bun:"home_team"`
	AwayTeam string     `bun:"away_team"`
	Kickoff  *time.Time `bun:"kickoff"`
	// results table (alias r)
	Winner     *string `bun:"winner"`
	MarginBand *string `bun:"margin_band"`
	// odds_quotes table (alias oq)
	Draw        *float64 `bun:"draw"`
	HomeClose   *float64 `bun:"home_1_12"`
	HomeBlowout *float64 `bun:"home_13_plus"`
	AwayClose   *float64 `bun:"away_1_12"`
	AwayBlowout *float64 `bun:"away_13_plus"`
}

type fixtureOdds struct {
	Draw        float64 `json:"draw"`
	HomeClose   float64 `json:"home_1_12"`
	HomeBlowout float64 `json:"home_13_plus"`
	AwayClose   float64 `json:"away_1_12"`
	AwayBlowout float64 `json:"away_13_plus"`
}

type fixtureView struct {
	ID         int          `json:"id"`
	Round      int          `json:"round"`
	HomeTeam   string       `json:"homeTeam"`
	AwayTeam   string       `json:"awayTeam"`
	Kickoff    *time.Time   `json:"kickoff,omitempty"`
	Winner     *string      `json:"winner,omitempty"`
	MarginBand *string      `json:"marginBand,omitempty"`
	Odds       *fixtureOdds `json:"odds,omitempty"`
}

const fixtureJoinSQL = `
SELECT
	f.id, f.round, f.home_team, f.away_team, f.kickoff,
	r.winner, r.margin_band,
	oq.draw, oq.home_1_12, oq.home_13_plus, oq.away_1_12, oq.away_13_plus
FROM fixtures f
LEFT JOIN results     r  ON r.fixture_id  = f.id
LEFT JOIN odds_quotes oq ON oq.fixture_id = f.id
`

// Fixtures returns the caller's competition fixtures with any recorded
// result and published odds. Optional round filter.
func (h *Handler) Fixtures(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}

	q := fixtureJoinSQL + `WHERE f.competition_id = ?`
	args := []interface{}{participant.CompetitionID}
	if round := c.QueryParam("round"); round != "" {
		q += ` AND f.round = ?`
		args = append(args, round)
	}
	q += ` ORDER BY f.round, f.kickoff NULLS LAST, f.id`

	var rows []fixtureRow
	if err := h.db.NewRaw(q, args...).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]fixtureView, 0, len(rows))
	for _, row := range rows {
		view := fixtureView{
			ID:         row.ID,
			Round:      row.Round,
			HomeTeam:   row.HomeTeam,
			AwayTeam:   row.AwayTeam,
			Kickoff:    row.Kickoff,
			Winner:     row.Winner,
			MarginBand: row.MarginBand,
		}
		if row.Draw != nil {
			view.Odds = &fixtureOdds{
				Draw:        *row.Draw,
				HomeClose:   *row.HomeClose,
				HomeBlowout: *row.HomeBlowout,
				AwayClose:   *row.AwayClose,
				AwayBlowout: *row.AwayBlowout,
			}
		}
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, views)
}
