package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pbclarke/tippingapi/models"
)

// paperBetRow is a flat scan target for the paper bet settlement join.
type paperBetRow struct {
	// paper_bets table (alias pb)
	Reference string    `bun:"reference"`
	FixtureID int       `bun:"fixture_id"`
	Outcome   string    `bun:"outcome"`
	Stake     float64   `bun:"stake"`
	Odds      float64   `bun:"odds"`
	PlacedAt  time.Time `bun:"placed_at"`
	// fixtures table (alias f)
	HomeTeam string `bun:"home_team"`
	AwayTeam string `bun:"away_team"`
	// results table (alias r)
	Winner     *string `bun:"winner"`
	MarginBand *string `bun:"margin_band"`
}

type paperBetView struct {
	Reference string    `json:"reference"`
	FixtureID int       `json:"fixtureID"`
	Outcome   string    `json:"outcome"`
	Stake     float64   `json:"stake"`
	Odds      float64   `json:"odds"`
	PlacedAt  time.Time `json:"placedAt"`
	Settled   bool      `json:"settled"`
	Won       bool      `json:"won"`
	Returns   float64   `json:"returns"`
}

const paperBetJoinSQL = `
SELECT
	pb.reference, pb.fixture_id, pb.outcome, pb.stake, pb.odds, pb.placed_at,
	f.home_team, f.away_team,
	r.winner, r.margin_band
FROM paper_bets pb
INNER JOIN fixtures f ON f.id = pb.fixture_id
LEFT JOIN results   r ON r.fixture_id = pb.fixture_id
WHERE pb.participant_id = ?
ORDER BY pb.fixture_id
`

// PaperBets returns the caller's simulated wagers with settlement state.
func (h *Handler) PaperBets(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}

	var rows []paperBetRow
	if err := h.db.NewRaw(paperBetJoinSQL, participant.ID).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]paperBetView, 0, len(rows))
	for _, row := range rows {
		view := paperBetView{
			Reference: row.Reference,
			FixtureID: row.FixtureID,
			Outcome:   row.Outcome,
			Stake:     row.Stake,
			Odds:      row.Odds,
			PlacedAt:  row.PlacedAt,
		}
		if row.Winner != nil {
			view.Settled = true
			if resultOutcome(*row.Winner, row.MarginBand, row.HomeTeam, row.AwayTeam) == row.Outcome {
				view.Won = true
				view.Returns = row.Stake * row.Odds
			}
		}
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, views)
}

// resultOutcome maps a recorded result onto the outcome label it settles.
// A non-draw result with no margin band settles no margin-labelled outcome.
func resultOutcome(winner string, band *string, homeTeam, awayTeam string) string {
	if winner == models.Draw {
		return models.OutcomeDraw
	}
	if band == nil {
		return ""
	}
	switch {
	case winner == homeTeam && *band == models.BandClose:
		return models.OutcomeHomeClose
	case winner == homeTeam && *band == models.BandBlowout:
		return models.OutcomeHomeBlowout
	case winner == awayTeam && *band == models.BandClose:
		return models.OutcomeAwayClose
	case winner == awayTeam && *band == models.BandBlowout:
		return models.OutcomeAwayBlowout
	}
	return ""
}
