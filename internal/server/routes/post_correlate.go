package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sage/internal/server/middleware"
	"sage/pkg/analysis"
	"sage/pkg/common"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

// CorrelateNodeHandler resolves a graph node to the solution step it
// belongs to, so the UI can highlight the step when a node is selected.
func CorrelateNodeHandler(c echo.Context) error {
	type correlateBody struct {
		NodeID string `json:"node_id" validate:"required"`
	}

	type correlateResponse struct {
		Message   string       `json:"message"`
		StepIndex int          `json:"step_index"`
		Matched   bool         `json:"matched"`
		Step      *common.Step `json:"step,omitempty"`
	}

	id := c.Param("id")

	data := new(correlateBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, correlateResponse{
			Message:   "Invalid request body",
			StepIndex: -1,
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, correlateResponse{
			Message:   "Invalid request body",
			StepIndex: -1,
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	record, err := storage.GetAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, correlateResponse{
			Message:   "Analysis not found",
			StepIndex: -1,
		})
	}
	if err != nil {
		logger.Error("Failed to get analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, correlateResponse{
			Message:   "Internal server error",
			StepIndex: -1,
		})
	}
	if record.Analysis == nil {
		return c.JSON(http.StatusConflict, correlateResponse{
			Message:   "Analysis has no result yet",
			StepIndex: -1,
		})
	}

	index, matched := analysis.CorrelateStep(data.NodeID, record.Analysis.Steps)
	response := correlateResponse{
		Message:   "OK",
		StepIndex: index,
		Matched:   matched,
	}
	if matched {
		response.Step = &record.Analysis.Steps[index]
	}

	return c.JSON(http.StatusOK, response)
}
