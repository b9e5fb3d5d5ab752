package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/storage"
	"github.com/strainnet/portal/backend/pkg/logger"
)

// EndSessionHandler returns the view to global mode and discards the
// session. Any in-flight expansion fetch becomes stale and is dropped.
func EndSessionHandler(c echo.Context) error {
	type endSessionParams struct {
		SessionID string `param:"id" validate:"required"`
	}

	type endSessionResponse struct {
		Message string `json:"message"`
	}

	params := new(endSessionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, endSessionResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, endSessionResponse{
			Message: "Invalid request params",
		})
	}

	s, status, msg := lookupSession(c, params.SessionID)
	if s == nil {
		return c.JSON(status, endSessionResponse{Message: msg})
	}

	app := c.(*middleware.AppContext).App
	s.Controller.BackToGlobal()
	app.Sessions.Delete(s.ID)

	if err := storage.DeleteExports(c.Request().Context(), app.S3, s.ID); err != nil {
		logger.Warn("Failed to clean up session exports", "session", s.ID, "err", err)
	}

	return c.JSON(http.StatusOK, endSessionResponse{
		Message: "Session ended",
	})
}
