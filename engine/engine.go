// Package engine implements the pick lifecycle: submission locking,
// the append-only pick event log and its materialized current-pick row,
// scoring, paper-bet synthesis, decisiveness analysis and the leaderboard.
// Handlers stay thin; every rule lives here.
package engine

import (
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/pbclarke/tippingapi/config"
)

// Engine holds the storage handle and the policy knobs resolved from
// configuration at construction time.
type Engine struct {
	db      *bun.DB
	log     *zap.Logger
	policy  DrawPolicy
	stake   float64
	minOdds float64
	now     func() time.Time
}

// Option overrides an Engine default, mainly from tests.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDrawPolicy overrides the configured draw scoring rule.
func WithDrawPolicy(p DrawPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// New builds an Engine from configuration.
func New(db *bun.DB, log *zap.Logger, cfg *config.Config, opts ...Option) (*Engine, error) {
	policy, err := ParseDrawPolicy(cfg.DrawPolicy)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		db:      db,
		log:     log,
		policy:  policy,
		stake:   cfg.PaperBetStake,
		minOdds: cfg.MinOdds,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DrawPolicy returns the active draw scoring rule.
func (e *Engine) DrawPolicy() DrawPolicy { return e.policy }
