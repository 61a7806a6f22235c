// cmd/importlegacy/main.go
// Imports data from the legacy MySQL tipping database into the local
// PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/tipping?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/importlegacy
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/pbclarke/tippingapi/config"
	bundb "github.com/pbclarke/tippingapi/db"
	"github.com/pbclarke/tippingapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/tipping?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"competitions", func() (int, error) { return importCompetitions(ctx, myDB, pgDB) }},
		{"participants", func() (int, error) { return importParticipants(ctx, myDB, pgDB) }},
		{"fixtures", func() (int, error) { return importFixtures(ctx, myDB, pgDB) }},
		{"odds_quotes", func() (int, error) { return importOdds(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("import %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows imported", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("import complete")
}

// --- helpers ---

func nullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// --- per-table imports ---

func importCompetitions(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, name, season FROM competitions")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Competition
	total := 0
	for rows.Next() {
		var r models.Competition
		if err := rows.Scan(&r.ID, &r.Name, &r.Season); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func importParticipants(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, username, password, display_name, competition_id FROM participants")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Participant
	total := 0
	for rows.Next() {
		var r models.Participant
		if err := rows.Scan(&r.ID, &r.Username, &r.Password, &r.DisplayName, &r.CompetitionID); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func importFixtures(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, competition_id, round, home_team, away_team, kickoff FROM fixtures`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Fixture
	total := 0
	for rows.Next() {
		var (
			id            int
			competitionID int
			round         int
			homeTeam      string
			awayTeam      string
			kickoff       sql.NullTime
		)
		if err := rows.Scan(&id, &competitionID, &round, &homeTeam, &awayTeam, &kickoff); err != nil {
			return total, err
		}
		batch = append(batch, models.Fixture{
			ID:            id,
			CompetitionID: competitionID,
			Round:         round,
			HomeTeam:      homeTeam,
			AwayTeam:      awayTeam,
			Kickoff:       nullTime(kickoff),
		})
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func importOdds(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, fixture_id, draw, home_1_12, home_13_plus, away_1_12, away_13_plus
		 FROM odds_quotes`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.OddsQuote
	total := 0
	for rows.Next() {
		var r models.OddsQuote
		if err := rows.Scan(&r.ID, &r.FixtureID, &r.Draw, &r.HomeClose, &r.HomeBlowout,
			&r.AwayClose, &r.AwayBlowout); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ seq, table, col string }{
		{"competitions_id_seq", "competitions", "id"},
		{"participants_id_seq", "participants", "id"},
		{"fixtures_id_seq", "fixtures", "id"},
		{"odds_quotes_id_seq", "odds_quotes", "id"},
	}
	for _, s := range seqs {
		q := fmt.Sprintf(
			"SELECT setval('%s', COALESCE((SELECT MAX(%s) FROM %s), 1))",
			s.seq, s.col, s.table,
		)
		if _, err := pgDB.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", s.seq, err)
		}
	}
	log.Println("sequences reset")
}
