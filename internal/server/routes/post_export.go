package routes

import (
	"encoding/json"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/storage"
	"github.com/strainnet/portal/backend/internal/util"
)

// ExportSessionHandler renders the current session view, stores it as a
// JSON snapshot and hands back a time-limited download link.
func ExportSessionHandler(c echo.Context) error {
	type exportSessionParams struct {
		SessionID string `param:"id" validate:"required"`
	}

	type exportSessionResponse struct {
		Message     string `json:"message"`
		Key         string `json:"key,omitempty"`
		DownloadURL string `json:"download_url,omitempty"`
	}

	params := new(exportSessionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportSessionResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportSessionResponse{
			Message: "Invalid request params",
		})
	}

	s, status, msg := lookupSession(c, params.SessionID)
	if s == nil {
		return c.JSON(status, exportSessionResponse{Message: msg})
	}

	view, err := buildSessionView(c, s)
	if err != nil {
		return c.JSON(http.StatusBadGateway, exportSessionResponse{
			Message: "Failed to render network view",
		})
	}

	snapshot, err := json.Marshal(view)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportSessionResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	key, err := util.NewSessionID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportSessionResponse{
			Message: "Internal server error",
		})
	}

	objectKey, err := storage.PutSnapshot(ctx, app.S3, s.ID, key, snapshot)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportSessionResponse{
			Message: "Failed to store snapshot",
		})
	}

	link, err := storage.GenerateDownloadLink(ctx, app.S3, objectKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportSessionResponse{
			Message: "Failed to generate download link",
		})
	}

	return c.JSON(http.StatusCreated, exportSessionResponse{
		Message:     "Snapshot exported",
		Key:         objectKey,
		DownloadURL: link,
	})
}
