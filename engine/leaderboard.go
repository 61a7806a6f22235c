package engine

import (
	"context"
	"fmt"

	"github.com/pbclarke/tippingapi/models"
)

// leaderboardRow is a flat scan target for the picks × results join.
type leaderboardRow struct {
	ParticipantID int     `bun:"participant_id"`
	Team          string  `bun:"team"`
	Margin        int     `bun:"margin"`
	Winner        string  `bun:"winner"`
	MarginBand    *string `bun:"margin_band"`
}

const leaderboardJoinSQL = `
SELECT
	pk.participant_id, pk.team, pk.margin,
	r.winner, r.margin_band
FROM picks pk
INNER JOIN results  r ON r.fixture_id = pk.fixture_id
INNER JOIN fixtures f ON f.id = pk.fixture_id
WHERE f.competition_id = ?
`

// Leaderboard scores every decided pick in the competition, sums points
// per participant and returns competition-ranked entries. Participants
// with no scored picks still appear with zero points.
func (e *Engine) Leaderboard(ctx context.Context, competitionID int) ([]Entry, error) {
	var participants []models.Participant
	err := e.db.NewSelect().Model(&participants).
		Where("competition_id = ?", competitionID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	var rows []leaderboardRow
	if err := e.db.NewRaw(leaderboardJoinSQL, competitionID).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("load scored picks: %w", err)
	}

	totals := make(map[int]int, len(participants))
	for _, row := range rows {
		result := &models.Result{Winner: row.Winner, MarginBand: row.MarginBand}
		totals[row.ParticipantID] += Score(row.Team, row.Margin, result, e.policy).Total
	}

	entries := make([]Entry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, Entry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Points:        totals[p.ID],
		})
	}
	return Rank(entries), nil
}
