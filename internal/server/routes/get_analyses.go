package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"sage/internal/server/middleware"
	"sage/pkg/logger"
	analysisstorage "sage/pkg/store/pgx"
)

// GetAnalysesHandler lists stored analyses, newest first.
func GetAnalysesHandler(c echo.Context) error {
	type analysisListEntry struct {
		ID             string    `json:"id"`
		Problem        string    `json:"problem"`
		Domain         string    `json:"domain,omitempty"`
		ProblemSummary string    `json:"problem_summary,omitempty"`
		Status         string    `json:"status"`
		CreatedAt      time.Time `json:"created_at"`
	}

	type getAnalysesResponse struct {
		Message  string              `json:"message"`
		Analyses []analysisListEntry `json:"analyses,omitempty"`
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	summaries, err := storage.ListAnalyses(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list analyses", "err", err)
		return c.JSON(http.StatusInternalServerError, getAnalysesResponse{
			Message: "Internal server error",
		})
	}

	entries := make([]analysisListEntry, 0, len(summaries))
	for _, summary := range summaries {
		entries = append(entries, analysisListEntry{
			ID:             summary.ID,
			Problem:        summary.Problem,
			Domain:         summary.Domain,
			ProblemSummary: summary.ProblemSummary,
			Status:         summary.Status,
			CreatedAt:      summary.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, getAnalysesResponse{
		Message:  "OK",
		Analyses: entries,
	})
}
