package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/pbclarke/tippingapi/models"
)

// Submit records a pick for the participant on a fixture. Preconditions
// are checked in a fixed order (first failure wins): team validity,
// margin validity, result lock, kickoff lock, competition scope. On
// success a PickEvent is appended, the current Pick row is upserted and
// paper-bet synthesis is attempted, all inside one transaction so the
// event log and the materialized pick can never diverge.
//
// Resubmitting identical values is accepted and appends a fresh event:
// the log feeds decisiveness analysis and must capture every attempt.
func (e *Engine) Submit(ctx context.Context, participant *models.Participant, fixtureID int, team string, margin int) (*models.Pick, error) {
	fixture, err := e.fixture(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	if !fixture.HasTeam(team) {
		return nil, ErrInvalidTeam
	}
	if team == models.Draw {
		// A draw pick carries no margin claim, whatever the caller sent.
		margin = models.MarginNone
	}
	if err := models.ValidatePickValues(fixture, team, margin); err != nil {
		return nil, ErrInvalidMargin
	}

	now := e.now()
	pick := &models.Pick{
		ParticipantID: participant.ID,
		FixtureID:     fixture.ID,
		Team:          team,
		Margin:        margin,
		UpdatedAt:     now,
	}

	err = e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := e.lockForSubmit(ctx, tx, participant.ID, fixture.ID); err != nil {
			return err
		}

		// Lock checks run inside the transaction: a concurrent result
		// insertion holds the fixture lock exclusively, so no late pick
		// can land after a result becomes visible.
		exists, err := tx.NewSelect().Model((*models.Result)(nil)).
			Where("fixture_id = ?", fixture.ID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrResultLocked
		}
		if !IsOpen(fixture, false, now) {
			return ErrKickoffLocked
		}
		if fixture.CompetitionID != participant.CompetitionID {
			return ErrScopeMismatch
		}

		event := &models.PickEvent{
			ParticipantID: participant.ID,
			FixtureID:     fixture.ID,
			Team:          team,
			Margin:        margin,
			SubmittedBy:   participant.Username,
			CreatedAt:     now,
		}
		if _, err := tx.NewInsert().Model(event).Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(pick).
			On("CONFLICT (participant_id, fixture_id) DO UPDATE").
			Set("team = EXCLUDED.team").
			Set("margin = EXCLUDED.margin").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return err
		}

		return e.synthesizeBet(ctx, tx, participant.ID, fixture, team, margin, now)
	})
	if err != nil {
		var rej *Reject
		if errors.As(err, &rej) {
			return nil, rej
		}
		return nil, fmt.Errorf("submit pick: %w", err)
	}
	return pick, nil
}

// Withdraw removes the participant's current pick and its paper bet.
// The event log is permanent and keeps every prior submission. The same
// result and kickoff locks apply as for Submit.
func (e *Engine) Withdraw(ctx context.Context, participant *models.Participant, fixtureID int) error {
	fixture, err := e.fixture(ctx, fixtureID)
	if err != nil {
		return err
	}

	now := e.now()
	err = e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := e.lockForSubmit(ctx, tx, participant.ID, fixture.ID); err != nil {
			return err
		}

		exists, err := tx.NewSelect().Model((*models.Result)(nil)).
			Where("fixture_id = ?", fixture.ID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrResultLocked
		}
		if !IsOpen(fixture, false, now) {
			return ErrKickoffLocked
		}

		res, err := tx.NewDelete().Model((*models.Pick)(nil)).
			Where("participant_id = ? AND fixture_id = ?", participant.ID, fixture.ID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		_, err = tx.NewDelete().Model((*models.PaperBet)(nil)).
			Where("participant_id = ? AND fixture_id = ?", participant.ID, fixture.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		var rej *Reject
		if errors.As(err, &rej) {
			return rej
		}
		return fmt.Errorf("withdraw pick: %w", err)
	}
	return nil
}

// RecordResult stores the outcome of a fixture. It is a one-time
// transition: a second recording for the same fixture is rejected and
// once committed every later Submit observes RESULT_LOCKED.
func (e *Engine) RecordResult(ctx context.Context, fixtureID int, winner string, margin *int) (*models.Result, error) {
	fixture, err := e.fixture(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	result := &models.Result{FixtureID: fixture.ID, Winner: winner}
	if winner != models.Draw {
		result.MarginBand = BandOf(margin)
	}
	if err := result.Validate(fixture); err != nil {
		return nil, ErrInvalidTeam
	}

	err = e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := e.lockForResult(ctx, tx, fixture.ID); err != nil {
			return err
		}

		res, err := tx.NewInsert().Model(result).
			On("CONFLICT (fixture_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrResultLocked
		}
		return nil
	})
	if err != nil {
		var rej *Reject
		if errors.As(err, &rej) {
			return nil, rej
		}
		return nil, fmt.Errorf("record result: %w", err)
	}
	return result, nil
}

// CurrentPicks returns the participant's materialized picks.
func (e *Engine) CurrentPicks(ctx context.Context, participantID int) ([]models.Pick, error) {
	var picks []models.Pick
	err := e.db.NewSelect().Model(&picks).
		Where("participant_id = ?", participantID).
		Order("fixture_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}
	return picks, nil
}

// PaperBets returns the participant's paper bets.
func (e *Engine) PaperBets(ctx context.Context, participantID int) ([]models.PaperBet, error) {
	var bets []models.PaperBet
	err := e.db.NewSelect().Model(&bets).
		Where("participant_id = ?", participantID).
		Order("fixture_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load paper bets: %w", err)
	}
	return bets, nil
}

func (e *Engine) fixture(ctx context.Context, id int) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	err := e.db.NewSelect().Model(fixture).Where("f.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	return fixture, nil
}

// lockForSubmit serializes submissions per (participant, fixture) key and
// takes the fixture lock in shared mode so submissions for different keys
// proceed independently while result recording excludes them all.
// SQLite (tests) serializes writers globally, so no lock is needed there.
func (e *Engine) lockForSubmit(ctx context.Context, tx bun.Tx, participantID, fixtureID int) error {
	if e.db.Dialect().Name() != dialect.PG {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock_shared(?)", int64(fixtureID)); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?, ?)", int32(participantID), int32(fixtureID))
	return err
}

func (e *Engine) lockForResult(ctx context.Context, tx bun.Tx, fixtureID int) error {
	if e.db.Dialect().Name() != dialect.PG {
		return nil
	}
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", int64(fixtureID))
	return err
}
