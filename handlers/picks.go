package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type pickSubmission struct {
	ParticipantID string `json:"participantId,omitempty"`
	FixtureID     int    `json:"fixtureID"`
	Team          string `json:"team"`
	Margin        int    `json:"margin"`
}

// GetPicks returns the caller's current picks.
func (h *Handler) GetPicks(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}

	picks, err := h.eng.CurrentPicks(c.Request().Context(), participant.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, picks)
}

// SubmitPick records a pick for the authenticated participant.
func (h *Handler) SubmitPick(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}

	var sub pickSubmission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := checkIdentity(c, participant, sub.ParticipantID); err != nil {
		return err
	}
	if sub.FixtureID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "missing fixtureID")
	}

	pick, err := h.eng.Submit(c.Request().Context(), participant, sub.FixtureID, sub.Team, sub.Margin)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pick)
}

// WithdrawPick removes the caller's current pick for a fixture. The pick
// event log is untouched.
func (h *Handler) WithdrawPick(c echo.Context) error {
	participant, err := h.participant(c)
	if err != nil {
		return err
	}
	if err := checkIdentity(c, participant, c.QueryParam("participantId")); err != nil {
		return err
	}

	fixtureID, err := strconv.Atoi(c.QueryParam("fixtureID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing or invalid fixtureID param")
	}

	if err := h.eng.Withdraw(c.Request().Context(), participant, fixtureID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}
