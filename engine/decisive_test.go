package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbclarke/tippingapi/models"
)

var kickoff = time.Date(2026, 5, 2, 19, 35, 0, 0, time.UTC)

func event(fixtureID int, team string, margin int, at time.Time) models.PickEvent {
	return models.PickEvent{FixtureID: fixtureID, Team: team, Margin: margin, CreatedAt: at}
}

func TestAnalyzeEvents_SecondGuessWin(t *testing.T) {
	fixtures := []models.Fixture{{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU", Kickoff: &kickoff}}
	results := map[int]*models.Result{1: result("BLU", models.BandClose)}
	events := map[int][]models.PickEvent{1: {
		event(1, "CRU", models.MarginClose, kickoff.Add(-2*time.Hour)),
		event(1, "BLU", models.MarginClose, kickoff.Add(-time.Hour)),
	}}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	assert.Equal(t, 1, r.FixturesScored)
	assert.Equal(t, 1, r.SecondGuessWins)
	assert.Equal(t, 0, r.GutFeelWins)
	assert.Equal(t, 8, r.PointsGained)
	assert.Equal(t, 1, r.TotalRevisions)
	require.NotNil(t, r.MostIndecisive)
	assert.Equal(t, 0, r.MostIndecisive.FirstScore.Total)
	assert.Equal(t, 8, r.MostIndecisive.FinalScore.Total)
}

func TestAnalyzeEvents_GutFeelWin(t *testing.T) {
	fixtures := []models.Fixture{{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU", Kickoff: &kickoff}}
	results := map[int]*models.Result{1: result("CRU", models.BandClose)}
	events := map[int][]models.PickEvent{1: {
		event(1, "CRU", models.MarginClose, kickoff.Add(-2*time.Hour)),
		event(1, "BLU", models.MarginClose, kickoff.Add(-time.Hour)),
	}}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	assert.Equal(t, 1, r.GutFeelWins)
	assert.Equal(t, 8, r.PointsLost)
	assert.Equal(t, 0, r.PointsGained)
}

func TestAnalyzeEvents_UnchangedAndExclusions(t *testing.T) {
	fixtures := []models.Fixture{
		{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU", Kickoff: &kickoff},
		{ID: 2, HomeTeam: "HUR", AwayTeam: "CHI", Kickoff: &kickoff}, // result, no events
		{ID: 3, HomeTeam: "HIG", AwayTeam: "MOA", Kickoff: &kickoff}, // events, no result
	}
	results := map[int]*models.Result{
		1: result("CRU", models.BandClose),
		2: result("HUR", models.BandClose),
	}
	events := map[int][]models.PickEvent{
		1: {event(1, "CRU", models.MarginClose, kickoff.Add(-time.Hour))},
		3: {event(3, "HIG", models.MarginClose, kickoff.Add(-time.Hour))},
	}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	assert.Equal(t, 1, r.FixturesScored)
	assert.Equal(t, 1, r.Unchanged)
	assert.Equal(t, 0, r.TotalRevisions)
}

func TestAnalyzeEvents_PostKickoffEventsIgnoredForFinal(t *testing.T) {
	fixtures := []models.Fixture{{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU", Kickoff: &kickoff}}
	results := map[int]*models.Result{1: result("BLU", models.BandClose)}
	events := map[int][]models.PickEvent{1: {
		event(1, "BLU", models.MarginClose, kickoff.Add(-time.Hour)),
		event(1, "CRU", models.MarginClose, kickoff.Add(time.Hour)), // too late
	}}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	require.NotNil(t, r.MostIndecisive)
	assert.Equal(t, "BLU", r.MostIndecisive.FinalTeam)
	assert.Equal(t, 0, r.SecondGuessWins+r.GutFeelWins)
	assert.Equal(t, 1, r.Unchanged)
}

func TestAnalyzeEvents_AllEventsPostKickoffFallBackToFirst(t *testing.T) {
	fixtures := []models.Fixture{{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU", Kickoff: &kickoff}}
	results := map[int]*models.Result{1: result("BLU", models.BandClose)}
	events := map[int][]models.PickEvent{1: {
		event(1, "CRU", models.MarginClose, kickoff.Add(time.Minute)),
		event(1, "BLU", models.MarginClose, kickoff.Add(2*time.Minute)),
	}}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	require.NotNil(t, r.MostIndecisive)
	assert.Equal(t, "CRU", r.MostIndecisive.FinalTeam)
}

func TestAnalyzeEvents_NoKickoffUsesLatestEvent(t *testing.T) {
	fixtures := []models.Fixture{{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU"}}
	results := map[int]*models.Result{1: result("BLU", models.BandClose)}
	events := map[int][]models.PickEvent{1: {
		event(1, "CRU", models.MarginClose, kickoff),
		event(1, "BLU", models.MarginClose, kickoff.Add(48*time.Hour)),
	}}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	require.NotNil(t, r.MostIndecisive)
	assert.Equal(t, "BLU", r.MostIndecisive.FinalTeam)
	assert.Equal(t, 1, r.SecondGuessWins)
}

func TestAnalyzeEvents_MostIndecisiveTieKeepsFirstFixture(t *testing.T) {
	fixtures := []models.Fixture{
		{ID: 2, HomeTeam: "HUR", AwayTeam: "CHI", Kickoff: &kickoff},
		{ID: 1, HomeTeam: "CRU", AwayTeam: "BLU", Kickoff: &kickoff},
	}
	results := map[int]*models.Result{
		1: result("CRU", models.BandClose),
		2: result("HUR", models.BandClose),
	}
	twoEvents := func(fid int, team string) []models.PickEvent {
		return []models.PickEvent{
			event(fid, team, models.MarginClose, kickoff.Add(-2*time.Hour)),
			event(fid, team, models.MarginBlowout, kickoff.Add(-time.Hour)),
		}
	}
	events := map[int][]models.PickEvent{1: twoEvents(1, "CRU"), 2: twoEvents(2, "HUR")}

	r := AnalyzeEvents(fixtures, results, events, DrawBonus24)
	require.NotNil(t, r.MostIndecisive)
	// Fixtures iterate in id order, so the tie stays with fixture 1.
	assert.Equal(t, 1, r.MostIndecisive.FixtureID)
	assert.Equal(t, 2, r.TotalRevisions)
}
