package server

import (
	"github.com/strainnet/portal/backend/internal/server/middleware"
	"github.com/strainnet/portal/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Global network routes
	apiRoutes.GET("/network", routes.GetGlobalNetworkHandler, middleware.RequirePermission("network.view"))
	apiRoutes.GET("/genes", routes.SearchGenesHandler, middleware.RequirePermission("gene.search"))

	// Session routes
	apiRoutes.POST("/sessions", routes.CreateSessionHandler, middleware.RequirePermission("network.view"))
	apiRoutes.GET("/sessions/:id", routes.GetSessionHandler, middleware.RequirePermission("network.view"))
	apiRoutes.DELETE("/sessions/:id", routes.EndSessionHandler, middleware.RequirePermission("network.view"))
	apiRoutes.POST("/sessions/:id/expand", routes.ExpandNodeHandler, middleware.RequirePermission("network.expand"))
	apiRoutes.POST("/sessions/:id/rewind", routes.RewindSessionHandler, middleware.RequirePermission("network.expand"))
	apiRoutes.POST("/sessions/:id/export", routes.ExportSessionHandler, middleware.RequirePermission("network.export"))

	// Ortholog routes
	apiRoutes.POST("/orthologs", routes.OrthologBatchHandler, middleware.RequireAnyPermission("ortholog.view", "network.view"))
	apiRoutes.POST("/orthologs/precompute", routes.PrecomputeOrthologsHandler, middleware.RequirePermission("ortholog.precompute"))
}
