package engine

// Reject is a terminal, deterministic validation failure. Rejects are safe
// to report verbatim to the caller and never warrant a retry; anything else
// coming out of the engine is a storage failure wrapped with %w.
type Reject struct {
	Code    string
	Message string
}

func (r *Reject) Error() string { return r.Message }

var (
	ErrInvalidTeam   = &Reject{Code: "INVALID_TEAM", Message: "picked team is not in this fixture"}
	ErrInvalidMargin = &Reject{Code: "INVALID_MARGIN", Message: "margin must be 1 or 13 for a non-draw pick"}
	ErrResultLocked  = &Reject{Code: "RESULT_LOCKED", Message: "fixture result already recorded"}
	ErrKickoffLocked = &Reject{Code: "KICKOFF_LOCKED", Message: "fixture has kicked off"}
	ErrScopeMismatch = &Reject{Code: "SCOPE_MISMATCH", Message: "fixture is outside your competition"}
	ErrNotFound      = &Reject{Code: "NOT_FOUND", Message: "not found"}
)
