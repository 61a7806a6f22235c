package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/pbclarke/tippingapi/config"
	"github.com/pbclarke/tippingapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Competition)(nil),
		(*models.Participant)(nil),
		(*models.Fixture)(nil),
		(*models.Result)(nil),
		(*models.Pick)(nil),
		(*models.PickEvent)(nil),
		(*models.OddsQuote)(nil),
		(*models.PaperBet)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	// The event log is only ever read per (participant, fixture) in
	// submission order.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS pick_events_by_key ON pick_events (participant_id, fixture_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS fixtures_by_competition ON fixtures (competition_id, round)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}
