package server

import (
	"github.com/labstack/echo/v4"

	"sage/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Analysis routes
	apiRoutes.GET("/analyses", routes.GetAnalysesHandler)
	apiRoutes.POST("/analyses", routes.CreateAnalysisHandler)
	apiRoutes.GET("/analyses/:id", routes.GetAnalysisHandler)
	apiRoutes.DELETE("/analyses/:id", routes.DeleteAnalysisHandler)

	// Graph interaction routes
	apiRoutes.POST("/analyses/:id/layout", routes.LayoutAnalysisHandler)
	apiRoutes.POST("/analyses/:id/correlate", routes.CorrelateNodeHandler)

	// Tutor chat routes
	apiRoutes.POST("/analyses/:id/chat", routes.ChatHandler)
	apiRoutes.GET("/analyses/:id/chat", routes.GetChatHistoryHandler)
}
