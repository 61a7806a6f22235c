package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type resultEntry struct {
	FixtureID int    `json:"fixtureID"`
	Winner    string `json:"winner"`
	Margin    *int   `json:"margin,omitempty"`
}

// RecordResult stores a fixture outcome. Admin only; a result is the
// terminal event for a fixture and cannot be re-entered.
func (h *Handler) RecordResult(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}
	if !h.cfg.IsAdmin(participant.Username) {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}

	var entry resultEntry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if entry.FixtureID == 0 || entry.Winner == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing fixtureID or winner")
	}

	result, err := h.eng.RecordResult(c.Request().Context(), entry.FixtureID, entry.Winner, entry.Margin)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, result)
}
