package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Leaderboard returns competition-ranked standings for the caller's
// competition.
func (h *Handler) Leaderboard(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}

	entries, err := h.eng.Leaderboard(c.Request().Context(), participant.CompetitionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Decisiveness returns the caller's first-vs-final pick analysis.
func (h *Handler) Decisiveness(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}
	if err := checkIdentity(c, participant, c.QueryParam("participantId")); err != nil {
		return err
	}

	report, err := h.eng.Decisiveness(c.Request().Context(), participant)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}
