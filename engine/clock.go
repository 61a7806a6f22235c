package engine

import (
	"time"

	"github.com/pbclarke/tippingapi/models"
)

// IsOpen reports whether a fixture still accepts pick submissions.
// A recorded result is a hard lock regardless of time; otherwise the
// fixture closes at kickoff. Fixtures with no kickoff stay open until
// a result arrives. Callers must evaluate this at the instant of every
// submission attempt, never from a cached value.
func IsOpen(f *models.Fixture, resultExists bool, now time.Time) bool {
	if resultExists {
		return false
	}
	if f.Kickoff != nil && !now.Before(*f.Kickoff) {
		return false
	}
	return true
}
