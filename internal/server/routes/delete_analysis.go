package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sage/internal/server/middleware"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

// DeleteAnalysisHandler removes an analysis and its chat history.
func DeleteAnalysisHandler(c echo.Context) error {
	type deleteAnalysisResponse struct {
		Message string `json:"message"`
	}

	id := c.Param("id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	err := storage.DeleteAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, deleteAnalysisResponse{
			Message: "Analysis not found",
		})
	}
	if err != nil {
		logger.Error("Failed to delete analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteAnalysisResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteAnalysisResponse{
		Message: "Analysis deleted",
	})
}
