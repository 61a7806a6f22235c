package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbclarke/tippingapi/models"
)

// Swing records the first-vs-final comparison for one fixture, kept for
// the participant's most-revised fixture.
type Swing struct {
	FixtureID   int    `json:"fixtureID"`
	Revisions   int    `json:"revisions"`
	FirstTeam   string `json:"firstTeam"`
	FirstMargin int    `json:"firstMargin"`
	FirstScore  Points `json:"firstScore"`
	FinalTeam   string `json:"finalTeam"`
	FinalMargin int    `json:"finalMargin"`
	FinalScore  Points `json:"finalScore"`
}

// Report aggregates decisiveness statistics across a participant's
// scored fixtures: did revising picks help (secondGuessWins) or hurt
// (gutFeelWins)?
type Report struct {
	FixturesScored  int    `json:"fixturesScored"`
	GutFeelWins     int    `json:"gutFeelWins"`
	SecondGuessWins int    `json:"secondGuessWins"`
	Unchanged       int    `json:"unchanged"`
	PointsGained    int    `json:"pointsGained"`
	PointsLost      int    `json:"pointsLost"`
	TotalRevisions  int    `json:"totalRevisions"`
	MostIndecisive  *Swing `json:"mostIndecisive,omitempty"`
}

// AnalyzeEvents computes the decisiveness report from fixtures, their
// results and the participant's pick events grouped by fixture. Pure;
// fixtures with no result or no events are excluded entirely.
func AnalyzeEvents(fixtures []models.Fixture, results map[int]*models.Result, eventsByFixture map[int][]models.PickEvent, policy DrawPolicy) Report {
	// Deterministic iteration so revision-count ties keep the first
	// fixture found.
	ordered := make([]models.Fixture, len(fixtures))
	copy(ordered, fixtures)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var report Report
	for i := range ordered {
		fixture := &ordered[i]
		result := results[fixture.ID]
		events := eventsByFixture[fixture.ID]
		if result == nil || len(events) == 0 {
			continue
		}

		sort.SliceStable(events, func(a, b int) bool {
			if !events[a].CreatedAt.Equal(events[b].CreatedAt) {
				return events[a].CreatedAt.Before(events[b].CreatedAt)
			}
			return events[a].ID < events[b].ID
		})

		first := events[0]
		final := finalEvent(fixture, events)

		firstScore := Score(first.Team, first.Margin, result, policy)
		finalScore := Score(final.Team, final.Margin, result, policy)
		delta := finalScore.Total - firstScore.Total
		revisions := len(events) - 1

		report.FixturesScored++
		report.TotalRevisions += revisions
		switch {
		case delta > 0:
			report.SecondGuessWins++
			report.PointsGained += delta
		case delta < 0:
			report.GutFeelWins++
			report.PointsLost += -delta
		default:
			report.Unchanged++
		}

		if report.MostIndecisive == nil || revisions > report.MostIndecisive.Revisions {
			report.MostIndecisive = &Swing{
				FixtureID:   fixture.ID,
				Revisions:   revisions,
				FirstTeam:   first.Team,
				FirstMargin: first.Margin,
				FirstScore:  firstScore,
				FinalTeam:   final.Team,
				FinalMargin: final.Margin,
				FinalScore:  finalScore,
			}
		}
	}
	return report
}

// finalEvent selects the participant's effective final pick: the latest
// event at or before kickoff. When every event postdates kickoff this
// falls back to the earliest event, even though later events exist —
// preserved as-is pending product clarification. Without a kickoff the
// latest event overall counts.
func finalEvent(fixture *models.Fixture, events []models.PickEvent) models.PickEvent {
	if fixture.Kickoff == nil {
		return events[len(events)-1]
	}
	for i := len(events) - 1; i >= 0; i-- {
		if !events[i].CreatedAt.After(*fixture.Kickoff) {
			return events[i]
		}
	}
	return events[0]
}

// Decisiveness loads the participant's pick history for their
// competition and runs the analysis.
func (e *Engine) Decisiveness(ctx context.Context, participant *models.Participant) (*Report, error) {
	var fixtures []models.Fixture
	err := e.db.NewSelect().Model(&fixtures).
		Where("competition_id = ?", participant.CompetitionID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}

	var results []models.Result
	err = e.db.NewSelect().Model(&results).
		Join("JOIN fixtures AS f ON f.id = r.fixture_id").
		Where("f.competition_id = ?", participant.CompetitionID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	byFixture := make(map[int]*models.Result, len(results))
	for i := range results {
		byFixture[results[i].FixtureID] = &results[i]
	}

	var events []models.PickEvent
	err = e.db.NewSelect().Model(&events).
		Where("participant_id = ?", participant.ID).
		Order("created_at", "id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pick events: %w", err)
	}
	grouped := make(map[int][]models.PickEvent)
	for _, ev := range events {
		grouped[ev.FixtureID] = append(grouped[ev.FixtureID], ev)
	}

	report := AnalyzeEvents(fixtures, byFixture, grouped, e.policy)
	return &report, nil
}
