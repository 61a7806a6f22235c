package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/pbclarke/tippingapi/models"
)

// SynthesizeOutcome maps a pick to its paper-bet outcome label. The
// mapping is total over valid picks; ok is false only for values that
// failed pick validation upstream.
func SynthesizeOutcome(f *models.Fixture, team string, margin int) (string, bool) {
	if team == models.Draw {
		return models.OutcomeDraw, true
	}
	switch {
	case team == f.HomeTeam && margin == models.MarginClose:
		return models.OutcomeHomeClose, true
	case team == f.HomeTeam && margin == models.MarginBlowout:
		return models.OutcomeHomeBlowout, true
	case team == f.AwayTeam && margin == models.MarginClose:
		return models.OutcomeAwayClose, true
	case team == f.AwayTeam && margin == models.MarginBlowout:
		return models.OutcomeAwayBlowout, true
	}
	return "", false
}

// synthesizeBet writes or overwrites the participant's paper bet for the
// fixture using the current odds quote. Missing or implausible quotes are
// a silent skip, never a submission failure; only a genuine write error
// propagates so the surrounding transaction can guarantee no partial state.
func (e *Engine) synthesizeBet(ctx context.Context, tx bun.IDB, participantID int, f *models.Fixture, team string, margin int, now time.Time) error {
	outcome, ok := SynthesizeOutcome(f, team, margin)
	if !ok {
		e.log.Warn("paper bet skipped: unmappable pick",
			zap.Int("fixture", f.ID), zap.String("team", team), zap.Int("margin", margin))
		return nil
	}

	quote := &models.OddsQuote{}
	err := tx.NewSelect().Model(quote).
		Where("fixture_id = ?", f.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			e.log.Warn("paper bet skipped: no odds quote", zap.Int("fixture", f.ID))
			return nil
		}
		return err
	}

	odds, ok := quote.Quote(outcome)
	if !ok || odds < e.minOdds {
		e.log.Warn("paper bet skipped: quote below floor",
			zap.Int("fixture", f.ID), zap.String("outcome", outcome), zap.Float64("odds", odds))
		return nil
	}

	bet := &models.PaperBet{
		Reference:     uuid.NewString(),
		ParticipantID: participantID,
		FixtureID:     f.ID,
		Outcome:       outcome,
		Stake:         e.stake,
		Odds:          odds,
		PlacedAt:      now,
	}
	_, err = tx.NewInsert().Model(bet).
		On("CONFLICT (participant_id, fixture_id) DO UPDATE").
		Set("reference = EXCLUDED.reference").
		Set("outcome = EXCLUDED.outcome").
		Set("stake = EXCLUDED.stake").
		Set("odds = EXCLUDED.odds").
		Set("placed_at = EXCLUDED.placed_at").
		Exec(ctx)
	return err
}
