package engine_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	"github.com/pbclarke/tippingapi/config"
	bundb "github.com/pbclarke/tippingapi/db"
	"github.com/pbclarke/tippingapi/engine"
	"github.com/pbclarke/tippingapi/models"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type fixtureEnv struct {
	db          *bun.DB
	eng         *engine.Engine
	clock       *testClock
	participant *models.Participant
	fixture     *models.Fixture
}

func newEnv(t *testing.T, opts ...engine.Option) *fixtureEnv {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, bundb.CreateTables(ctx, db))

	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	cfg := &config.Config{
		DrawPolicy:    config.DrawPolicyBonus24,
		PaperBetStake: 10,
		MinOdds:       1.01,
	}
	opts = append([]engine.Option{engine.WithClock(clock.Now)}, opts...)
	eng, err := engine.New(db, zap.NewNop(), cfg, opts...)
	require.NoError(t, err)

	comp := &models.Competition{Name: "Super Rugby Tipping", Season: 2026}
	_, err = db.NewInsert().Model(comp).Exec(ctx)
	require.NoError(t, err)

	participant := &models.Participant{
		Username:      "paul",
		Password:      "x",
		DisplayName:   "Paul",
		CompetitionID: comp.ID,
	}
	_, err = db.NewInsert().Model(participant).Exec(ctx)
	require.NoError(t, err)

	kickoff := clock.now.Add(24 * time.Hour)
	fixture := &models.Fixture{
		CompetitionID: comp.ID,
		Round:         11,
		HomeTeam:      "CRU",
		AwayTeam:      "BLU",
		Kickoff:       &kickoff,
	}
	_, err = db.NewInsert().Model(fixture).Exec(ctx)
	require.NoError(t, err)

	quote := &models.OddsQuote{
		FixtureID:   fixture.ID,
		Draw:        21.0,
		HomeClose:   2.5,
		HomeBlowout: 3.2,
		AwayClose:   3.6,
		AwayBlowout: 6.5,
	}
	_, err = db.NewInsert().Model(quote).Exec(ctx)
	require.NoError(t, err)

	return &fixtureEnv{db: db, eng: eng, clock: clock, participant: participant, fixture: fixture}
}

func (env *fixtureEnv) eventCount(t *testing.T) int {
	t.Helper()
	n, err := env.db.NewSelect().Model((*models.PickEvent)(nil)).
		Where("participant_id = ? AND fixture_id = ?", env.participant.ID, env.fixture.ID).
		Count(context.Background())
	require.NoError(t, err)
	return n
}

func (env *fixtureEnv) currentBet(t *testing.T) *models.PaperBet {
	t.Helper()
	bet := &models.PaperBet{}
	err := env.db.NewSelect().Model(bet).
		Where("participant_id = ? AND fixture_id = ?", env.participant.ID, env.fixture.ID).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	require.NoError(t, err)
	return bet
}

func TestSubmit_WritesEventPickAndBet(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	pick, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)
	assert.Equal(t, "CRU", pick.Team)
	assert.Equal(t, models.MarginClose, pick.Margin)

	assert.Equal(t, 1, env.eventCount(t))

	bet := env.currentBet(t)
	require.NotNil(t, bet)
	assert.Equal(t, models.OutcomeHomeClose, bet.Outcome)
	assert.Equal(t, 10.0, bet.Stake)
	assert.Equal(t, 2.5, bet.Odds)
	assert.NotEmpty(t, bet.Reference)
}

func TestSubmit_IdempotentResubmissionAppendsEvent(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)

	env.clock.now = env.clock.now.Add(time.Hour)
	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)

	// Two events, one current pick, values unchanged but timestamp advanced.
	assert.Equal(t, 2, env.eventCount(t))

	picks, err := env.eng.CurrentPicks(ctx, env.participant.ID)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "CRU", picks[0].Team)
	assert.True(t, picks[0].UpdatedAt.Equal(env.clock.now), "pick timestamp advances on resubmission")
}

func TestSubmit_DrawForcesMarginNone(t *testing.T) {
	env := newEnv(t)

	pick, err := env.eng.Submit(context.Background(), env.participant, env.fixture.ID, models.Draw, models.MarginBlowout)
	require.NoError(t, err)
	assert.Equal(t, models.MarginNone, pick.Margin)

	bet := env.currentBet(t)
	require.NotNil(t, bet)
	assert.Equal(t, models.OutcomeDraw, bet.Outcome)
}

func TestSubmit_RejectOrder(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "HUR", models.MarginClose)
	assert.ErrorIs(t, err, engine.ErrInvalidTeam)

	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", 7)
	assert.ErrorIs(t, err, engine.ErrInvalidMargin)

	_, err = env.eng.Submit(ctx, env.participant, 999, "CRU", models.MarginClose)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	assert.Equal(t, 0, env.eventCount(t), "rejected submissions never append events")
}

func TestSubmit_KickoffLock(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	env.clock.now = env.fixture.Kickoff.Add(time.Minute)
	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	assert.ErrorIs(t, err, engine.ErrKickoffLocked)
}

func TestSubmit_ResultLockBeatsKickoffClock(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	margin := 9
	_, err := env.eng.RecordResult(ctx, env.fixture.ID, "CRU", &margin)
	require.NoError(t, err)

	// Kickoff is still in the future; the result lock wins anyway.
	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	assert.ErrorIs(t, err, engine.ErrResultLocked)
}

func TestSubmit_ScopeMismatch(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	other := &models.Competition{Name: "Other Comp", Season: 2026}
	_, err := env.db.NewInsert().Model(other).Exec(ctx)
	require.NoError(t, err)

	outsider := &models.Participant{
		Username:      "mags",
		Password:      "x",
		DisplayName:   "Mags",
		CompetitionID: other.ID,
	}
	_, err = env.db.NewInsert().Model(outsider).Exec(ctx)
	require.NoError(t, err)

	_, err = env.eng.Submit(ctx, outsider, env.fixture.ID, "CRU", models.MarginClose)
	assert.ErrorIs(t, err, engine.ErrScopeMismatch)
}

func TestSubmit_PaperBetSnapshotSurvivesQuoteChange(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)
	assert.Equal(t, 2.5, env.currentBet(t).Odds)

	// External quote moves without a new submission: the snapshot holds.
	_, err = env.db.NewUpdate().Model((*models.OddsQuote)(nil)).
		Set("home_1_12 = ?", 3.0).
		Where("fixture_id = ?", env.fixture.ID).
		Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, env.currentBet(t).Odds)

	// A fresh submission re-synthesizes at the current quote.
	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)
	assert.Equal(t, 3.0, env.currentBet(t).Odds)
}

func TestSubmit_MissingOddsSkipsBetNotPick(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.db.NewDelete().Model((*models.OddsQuote)(nil)).
		Where("fixture_id = ?", env.fixture.ID).
		Exec(ctx)
	require.NoError(t, err)

	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)

	assert.Equal(t, 1, env.eventCount(t))
	assert.Nil(t, env.currentBet(t))
}

func TestSubmit_QuoteBelowFloorSkipsBet(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.db.NewUpdate().Model((*models.OddsQuote)(nil)).
		Set("home_1_12 = ?", 1.0).
		Where("fixture_id = ?", env.fixture.ID).
		Exec(ctx)
	require.NoError(t, err)

	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)
	assert.Nil(t, env.currentBet(t))
}

func TestWithdraw_RemovesPickAndBetKeepsEvents(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)

	require.NoError(t, env.eng.Withdraw(ctx, env.participant, env.fixture.ID))

	picks, err := env.eng.CurrentPicks(ctx, env.participant.ID)
	require.NoError(t, err)
	assert.Empty(t, picks)
	assert.Nil(t, env.currentBet(t))
	assert.Equal(t, 1, env.eventCount(t), "the event log is permanent")
}

func TestWithdraw_NoCurrentPick(t *testing.T) {
	env := newEnv(t)
	err := env.eng.Withdraw(context.Background(), env.participant, env.fixture.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestWithdraw_LockedAfterResult(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)

	margin := 20
	_, err = env.eng.RecordResult(ctx, env.fixture.ID, "CRU", &margin)
	require.NoError(t, err)

	err = env.eng.Withdraw(ctx, env.participant, env.fixture.ID)
	assert.ErrorIs(t, err, engine.ErrResultLocked)
}

func TestRecordResult_OneTimeTransition(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	margin := 5
	res, err := env.eng.RecordResult(ctx, env.fixture.ID, "CRU", &margin)
	require.NoError(t, err)
	require.NotNil(t, res.MarginBand)
	assert.Equal(t, models.BandClose, *res.MarginBand)

	_, err = env.eng.RecordResult(ctx, env.fixture.ID, "BLU", &margin)
	assert.ErrorIs(t, err, engine.ErrResultLocked)
}

func TestRecordResult_DrawHasNoBand(t *testing.T) {
	env := newEnv(t)

	margin := 5 // ignored for draws
	res, err := env.eng.RecordResult(context.Background(), env.fixture.ID, models.Draw, &margin)
	require.NoError(t, err)
	assert.Nil(t, res.MarginBand)
}

func TestRecordResult_UnknownWinner(t *testing.T) {
	env := newEnv(t)

	_, err := env.eng.RecordResult(context.Background(), env.fixture.ID, "HUR", nil)
	assert.ErrorIs(t, err, engine.ErrInvalidTeam)
}

func TestLeaderboard_RanksCompetitionScope(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	second := &models.Participant{
		Username:      "aoife",
		Password:      "x",
		DisplayName:   "Aoife",
		CompetitionID: env.participant.CompetitionID,
	}
	_, err := env.db.NewInsert().Model(second).Exec(ctx)
	require.NoError(t, err)

	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)
	_, err = env.eng.Submit(ctx, second, env.fixture.ID, "BLU", models.MarginClose)
	require.NoError(t, err)

	margin := 6
	_, err = env.eng.RecordResult(ctx, env.fixture.ID, "CRU", &margin)
	require.NoError(t, err)

	entries, err := env.eng.Leaderboard(ctx, env.participant.CompetitionID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Paul", entries[0].DisplayName)
	assert.Equal(t, 8, entries[0].Points)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Aoife", entries[1].DisplayName)
	assert.Equal(t, 0, entries[1].Points)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestDecisiveness_RevisionBeforeKickoff(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.eng.Submit(ctx, env.participant, env.fixture.ID, "CRU", models.MarginClose)
	require.NoError(t, err)

	env.clock.now = env.clock.now.Add(time.Hour)
	_, err = env.eng.Submit(ctx, env.participant, env.fixture.ID, "BLU", models.MarginClose)
	require.NoError(t, err)

	env.clock.now = env.fixture.Kickoff.Add(2 * time.Hour)
	margin := 4
	_, err = env.eng.RecordResult(ctx, env.fixture.ID, "BLU", &margin)
	require.NoError(t, err)

	report, err := env.eng.Decisiveness(ctx, env.participant)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FixturesScored)
	assert.Equal(t, 1, report.SecondGuessWins)
	assert.Equal(t, 8, report.PointsGained)
	assert.Equal(t, 1, report.TotalRevisions)
	require.NotNil(t, report.MostIndecisive)
	assert.Equal(t, "BLU", report.MostIndecisive.FinalTeam)
}
