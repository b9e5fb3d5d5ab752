package routes

import (
	"errors"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/pkg/network"
)

// RewindSessionHandler truncates the expansion path back to an earlier
// level. Level -1 restores the seed-only view.
func RewindSessionHandler(c echo.Context) error {
	type rewindParams struct {
		SessionID string `param:"id" validate:"required"`
		Level     *int   `json:"level" validate:"required"`
	}

	type rewindResponse struct {
		Message string       `json:"message"`
		Session *sessionView `json:"data,omitempty"`
	}

	params := new(rewindParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, rewindResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, rewindResponse{
			Message: "Invalid request params",
		})
	}

	s, status, msg := lookupSession(c, params.SessionID)
	if s == nil {
		return c.JSON(status, rewindResponse{Message: msg})
	}

	if err := s.Controller.Rewind(*params.Level); err != nil {
		if errors.Is(err, network.ErrNotFocused) {
			return c.JSON(http.StatusConflict, rewindResponse{
				Message: "Session is not in focused view",
			})
		}
		return c.JSON(http.StatusInternalServerError, rewindResponse{
			Message: "Internal server error",
		})
	}

	view, err := buildSessionView(c, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, rewindResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, rewindResponse{
		Message: "Session rewound",
		Session: &view,
	})
}
