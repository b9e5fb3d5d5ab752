package routes

import (
	"encoding/json"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/queue"
	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/util"
	"github.com/strainnet/portal/backend/pkg/common"
)

// OrthologBatchHandler resolves ortholog relationships for a batch of
// locus tags. Tags without data map to empty lists.
func OrthologBatchHandler(c echo.Context) error {
	type orthologBatchParams struct {
		LocusTags []string `json:"locus_tags" validate:"required,min=1"`
		Species   string   `json:"species"`
	}

	type orthologBatchResponse struct {
		Message   string                                   `json:"message"`
		Orthologs map[string][]common.OrthologRelationship `json:"data,omitempty"`
	}

	params := new(orthologBatchParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, orthologBatchResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, orthologBatchResponse{
			Message: "Invalid request params",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, orthologBatchResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	tags := util.NormalizeLocusTags(params.LocusTags)
	orthologs, err := app.Ortho.GetBatch(ctx, tags, params.Species)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, orthologBatchResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, orthologBatchResponse{
		Message:   "Orthologs found",
		Orthologs: orthologs,
	})
}

// PrecomputeOrthologsHandler queues a background recount of ortholog
// annotations for a species. The worker picks the message up from the
// ortholog queue.
func PrecomputeOrthologsHandler(c echo.Context) error {
	type precomputeParams struct {
		Species string `json:"species" validate:"required"`
	}

	type precomputeResponse struct {
		Message string `json:"message"`
	}

	params := new(precomputeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, precomputeResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, precomputeResponse{
			Message: "Invalid request params",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, precomputeResponse{
			Message: "Unauthorized",
		})
	}

	app := c.(*middleware.AppContext).App

	msg, err := json.Marshal(queue.OrthologPrecomputeMsg{
		Species:     params.Species,
		RequestedBy: user.UserID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, precomputeResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.OrthologQueue, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, precomputeResponse{
			Message: "Failed to queue precompute job",
		})
	}

	return c.JSON(http.StatusAccepted, precomputeResponse{
		Message: "Precompute queued",
	})
}
