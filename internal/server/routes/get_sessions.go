package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetSessionHandler returns the current render payload of a session.
func GetSessionHandler(c echo.Context) error {
	type getSessionParams struct {
		SessionID string `param:"id" validate:"required"`
	}

	type getSessionResponse struct {
		Message string       `json:"message"`
		Session *sessionView `json:"data,omitempty"`
	}

	params := new(getSessionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSessionResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSessionResponse{
			Message: "Invalid request params",
		})
	}

	s, status, msg := lookupSession(c, params.SessionID)
	if s == nil {
		return c.JSON(status, getSessionResponse{Message: msg})
	}

	view, err := buildSessionView(c, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getSessionResponse{
		Message: "Session found",
		Session: &view,
	})
}
