package routes

import (
	"context"
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/util"
	"github.com/strainnet/portal/backend/pkg/network"
)

// CreateSessionHandler focuses a node and opens a network view session
// seeded with its neighborhood.
func CreateSessionHandler(c echo.Context) error {
	type createSessionParams struct {
		LocusTag      string  `json:"locus_tag" validate:"required"`
		ScoreType     string  `json:"score_type" validate:"required"`
		MinScore      float64 `json:"min_score"`
		Species       string  `json:"species"`
		ShowOrthologs bool    `json:"show_orthologs"`
	}

	type createSessionResponse struct {
		Message string       `json:"message"`
		Session *sessionView `json:"data,omitempty"`
	}

	params := new(createSessionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request params",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, createSessionResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	locus := util.NormalizeLocusTag(params.LocusTag)
	node, err := app.Net.GetProtein(ctx, locus)
	if err != nil {
		return c.JSON(http.StatusNotFound, createSessionResponse{
			Message: "Unknown locus tag",
		})
	}

	controller := network.NewViewController(app.Network, app.NetQuery, app.Ortho, network.ViewQuery{
		ScoreType:     params.ScoreType,
		MinScore:      params.MinScore,
		Species:       params.Species,
		ShowOrthologs: params.ShowOrthologs,
		MaxResults:    int(util.GetEnvNumeric("NETWORK_GLOBAL_CAP", 500)),
	})

	err = util.RetryErrWithContext(ctx, 2, func(ctx context.Context) error {
		return controller.Focus(ctx, node)
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, createSessionResponse{
			Message: "Failed to fetch neighborhood, please retry",
		})
	}

	s, err := app.Sessions.Create(user.UserID, controller)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	view, err := buildSessionView(c, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusCreated, createSessionResponse{
		Message: "Session created",
		Session: &view,
	})
}
