package routes

import (
	"errors"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/pkg/network"
)

// ExpandNodeHandler expands one node of a focused session, merging its
// neighborhood into the cumulative graph one level deeper.
func ExpandNodeHandler(c echo.Context) error {
	type expandParams struct {
		SessionID string `param:"id" validate:"required"`
		NodeID    string `json:"node_id" validate:"required"`
	}

	type expandResponse struct {
		Message string       `json:"message"`
		Session *sessionView `json:"data,omitempty"`
	}

	params := new(expandParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, expandResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, expandResponse{
			Message: "Invalid request params",
		})
	}

	s, status, msg := lookupSession(c, params.SessionID)
	if s == nil {
		return c.JSON(status, expandResponse{Message: msg})
	}

	err := s.Controller.Expand(c.Request().Context(), params.NodeID)
	switch {
	case err == nil:
		// fallthrough to render
	case errors.Is(err, network.ErrDepthExceeded):
		return c.JSON(http.StatusConflict, expandResponse{
			Message: "Maximum expansion depth reached",
		})
	case errors.Is(err, network.ErrExpansionInFlight):
		return c.JSON(http.StatusConflict, expandResponse{
			Message: "Another expansion is in progress",
		})
	case errors.Is(err, network.ErrUnknownNode):
		return c.JSON(http.StatusNotFound, expandResponse{
			Message: "Node not in current network",
		})
	case errors.Is(err, network.ErrNotFocused):
		return c.JSON(http.StatusConflict, expandResponse{
			Message: "Session is not in focused view",
		})
	case errors.Is(err, network.ErrStaleResponse):
		return c.JSON(http.StatusConflict, expandResponse{
			Message: "View changed while expanding",
		})
	default:
		return c.JSON(http.StatusBadGateway, expandResponse{
			Message: "Failed to fetch neighborhood, please retry",
		})
	}

	view, err := buildSessionView(c, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, expandResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, expandResponse{
		Message: "Node expanded",
		Session: &view,
	})
}
