package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/util"
	"github.com/strainnet/portal/backend/pkg/common"
	"github.com/strainnet/portal/backend/pkg/netquery"
)

// GetGlobalNetworkHandler serves the lightweight overview network. The
// result is capped; edges and labels are suppressed client-side, so only
// the strongest interactions matter here.
func GetGlobalNetworkHandler(c echo.Context) error {
	type getNetworkParams struct {
		ScoreType string  `query:"score_type" validate:"required"`
		MinScore  float64 `query:"min_score"`
		Species   string  `query:"species"`
	}

	type getNetworkResponse struct {
		Message string              `json:"message"`
		Network *common.NetworkData `json:"data,omitempty"`
	}

	params := new(getNetworkParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getNetworkResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getNetworkResponse{
			Message: "Invalid request params",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getNetworkResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	data, err := app.NetQuery.GetNeighborhood(ctx, netquery.NeighborhoodRequest{
		ScoreType:   params.ScoreType,
		MinScore:    params.MinScore,
		Species:     params.Species,
		Lightweight: true,
		MaxResults:  int(util.GetEnvNumeric("NETWORK_GLOBAL_CAP", 500)),
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, getNetworkResponse{
			Message: "Failed to fetch network, please retry",
		})
	}

	return c.JSON(http.StatusOK, getNetworkResponse{
		Message: "Network found",
		Network: &data,
	})
}
