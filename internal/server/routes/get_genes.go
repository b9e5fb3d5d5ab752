package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/util"
	netdb "github.com/strainnet/portal/backend/pkg/netquery/pgx"
)

// SearchGenesHandler finds proteins by locus tag, name or product.
func SearchGenesHandler(c echo.Context) error {
	type searchGenesParams struct {
		Query   string `query:"q" validate:"required"`
		Species string `query:"species"`
		Limit   int    `query:"limit"`
	}

	type searchGenesResponse struct {
		Message string         `json:"message"`
		Genes   []netdb.GeneHit `json:"data,omitempty"`
	}

	params := new(searchGenesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, searchGenesResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, searchGenesResponse{
			Message: "Invalid request params",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, searchGenesResponse{
			Message: "Unauthorized",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	query := util.SanitizePostgresText(params.Query)
	hits, err := app.Net.SearchGenes(ctx, query, params.Species, params.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, searchGenesResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, searchGenesResponse{
		Message: "Genes found",
		Genes:   hits,
	})
}
