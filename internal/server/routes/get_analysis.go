package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sage/internal/server/middleware"
	"sage/pkg/common"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

// GetAnalysisHandler returns one analysis including the structured result
// when the job has completed. Failed records expose the raw model output.
func GetAnalysisHandler(c echo.Context) error {
	type getAnalysisResponse struct {
		Message    string           `json:"message"`
		ID         string           `json:"id,omitempty"`
		Problem    string           `json:"problem,omitempty"`
		DomainHint string           `json:"domain_hint,omitempty"`
		Status     string           `json:"status,omitempty"`
		Raw        string           `json:"raw,omitempty"`
		Analysis   *common.Analysis `json:"analysis,omitempty"`
		CreatedAt  time.Time        `json:"created_at,omitzero"`
		UpdatedAt  time.Time        `json:"updated_at,omitzero"`
	}

	id := c.Param("id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	record, err := storage.GetAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, getAnalysisResponse{
			Message: "Analysis not found",
		})
	}
	if err != nil {
		logger.Error("Failed to get analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, getAnalysisResponse{
			Message: "Internal server error",
		})
	}

	response := getAnalysisResponse{
		Message:    "OK",
		ID:         record.ID,
		Problem:    record.Problem,
		DomainHint: record.DomainHint,
		Status:     record.Status,
		Analysis:   record.Analysis,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
	if record.Status == store.StatusFailed {
		response.Raw = record.Raw
	}

	return c.JSON(http.StatusOK, response)
}
