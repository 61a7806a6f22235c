package engine

import (
	"fmt"

	"github.com/pbclarke/tippingapi/config"
	"github.com/pbclarke/tippingapi/models"
)

// DrawPolicy selects how a correctly called draw is scored. The rule is
// a named policy chosen through DRAW_POLICY config, never an implicit
// constant.
type DrawPolicy int

const (
	// DrawBonus24 awards a flat 24 points for picking a draw that lands.
	DrawBonus24 DrawPolicy = iota
	// DrawWinnerOnly treats a correct draw like any correct winner call:
	// 5 points, no margin component.
	DrawWinnerOnly
)

// Scoring weights shared by every read path (per-pick scoring, the
// leaderboard and decisiveness analysis all call the same Score).
const (
	winnerPoints    = 5
	marginPoints    = 3
	drawBonusPoints = 24
)

// ParseDrawPolicy maps a config policy name to its DrawPolicy.
func ParseDrawPolicy(name string) (DrawPolicy, error) {
	switch name {
	case config.DrawPolicyBonus24:
		return DrawBonus24, nil
	case config.DrawPolicyWinnerOnly:
		return DrawWinnerOnly, nil
	}
	return 0, fmt.Errorf("unknown draw policy %q", name)
}

// Points is the score breakdown for one pick against one result.
type Points struct {
	Winner int `json:"winner"`
	Margin int `json:"margin"`
	Total  int `json:"total"`
}

// Score converts a pick and a final result into points. Pure: no I/O,
// identical inputs always yield identical output.
//
// Rules, first match wins:
//  1. Drawn result: a draw pick scores per the policy, anything else zero.
//  2. Wrong winner: zero.
//  3. Correct winner: 5, plus 3 if the result has a margin band and the
//     pick's margin indicator classifies into the same band.
func Score(team string, margin int, res *models.Result, policy DrawPolicy) Points {
	if res.Winner == models.Draw {
		if team != models.Draw {
			return Points{}
		}
		if policy == DrawBonus24 {
			return Points{Total: drawBonusPoints}
		}
		return Points{Winner: winnerPoints, Total: winnerPoints}
	}

	if team != res.Winner {
		return Points{}
	}

	p := Points{Winner: winnerPoints}
	if res.MarginBand != nil && Band(margin) == *res.MarginBand {
		p.Margin = marginPoints
	}
	p.Total = p.Winner + p.Margin
	return p
}
