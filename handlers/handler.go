package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/pbclarke/tippingapi/config"
	"github.com/pbclarke/tippingapi/engine"
	"github.com/pbclarke/tippingapi/models"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	eng    *engine.Engine
	cfg    *config.Config
	JWTKey []byte
}

// New creates a Handler with the given database connection, engine and config.
func New(db *bun.DB, eng *engine.Engine, cfg *config.Config) *Handler {
	return &Handler{db: db, eng: eng, cfg: cfg, JWTKey: cfg.JWTKey()}
}

// participant resolves the acting participant from the JWT identity set
// by the middleware. Request parameters never supply identity.
func (h *Handler) participant(c echo.Context) (*models.Participant, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	p := &models.Participant{}
	err := h.db.NewSelect().Model(p).
		Where("username = ?", username).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return p, nil
}

// checkIdentity rejects any caller-supplied participant identifier that
// disagrees with the identity resolved from the token.
func checkIdentity(c echo.Context, p *models.Participant, supplied string) error {
	if supplied == "" {
		return nil
	}
	id, err := strconv.Atoi(supplied)
	if err != nil || id != p.ID {
		return echo.NewHTTPError(http.StatusForbidden, "participant mismatch")
	}
	return nil
}

// httpError maps engine rejects onto HTTP statuses; anything else is a 500.
func httpError(err error) error {
	var rej *engine.Reject
	if !errors.As(err, &rej) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	status := http.StatusBadRequest
	switch rej.Code {
	case "NOT_FOUND":
		status = http.StatusNotFound
	case "RESULT_LOCKED", "KICKOFF_LOCKED":
		status = http.StatusConflict
	case "SCOPE_MISMATCH":
		status = http.StatusForbidden
	}
	return echo.NewHTTPError(status, map[string]string{"code": rej.Code, "message": rej.Message})
}
