package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"sage/internal/queue"
	"sage/internal/server/middleware"
	"sage/internal/util"
	"sage/pkg/analysis"
	"sage/pkg/common"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

// CreateAnalysisHandler analyzes a problem statement. With async set the
// job is queued for the worker and the handler returns 202 with the new
// analysis id; otherwise the analysis runs inline.
func CreateAnalysisHandler(c echo.Context) error {
	type createAnalysisBody struct {
		Problem    string `json:"problem" validate:"required"`
		DomainHint string `json:"domain_hint"`
		Async      bool   `json:"async"`
	}

	type createAnalysisResponse struct {
		Message  string           `json:"message"`
		ID       string           `json:"id,omitempty"`
		Status   string           `json:"status,omitempty"`
		Analysis *common.Analysis `json:"analysis,omitempty"`
	}

	data := new(createAnalysisBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createAnalysisResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createAnalysisResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	id, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate analysis id", "err", err)
		return c.JSON(http.StatusInternalServerError, createAnalysisResponse{
			Message: "Internal server error",
		})
	}

	record := &store.AnalysisRecord{
		ID:         id,
		Problem:    data.Problem,
		DomainHint: data.DomainHint,
		Status:     store.StatusPending,
	}
	if err := storage.SaveAnalysis(ctx, record); err != nil {
		logger.Error("Failed to save analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, createAnalysisResponse{
			Message: "Internal server error",
		})
	}

	if data.Async {
		job, err := json.Marshal(queue.AnalyzeJobMsg{
			AnalysisID: id,
			Problem:    data.Problem,
			DomainHint: data.DomainHint,
		})
		if err != nil {
			logger.Error("Failed to encode analyze job", "err", err)
			return c.JSON(http.StatusInternalServerError, createAnalysisResponse{
				Message: "Internal server error",
			})
		}
		if err := queue.PublishFIFO(app.Queue, queue.AnalyzeQueue, job); err != nil {
			logger.Error("Failed to queue analyze job", "err", err)
			return c.JSON(http.StatusInternalServerError, createAnalysisResponse{
				Message: "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, createAnalysisResponse{
			Message: "Analysis queued",
			ID:      id,
			Status:  store.StatusPending,
		})
	}

	client := analysis.NewAnalysisClient(analysis.NewAnalysisClientParams{
		MaxRetries:           util.GetEnvInt("AI_MAX_RETRIES", 3),
		ParallelAiRequests:   util.GetEnvInt("AI_PARALLEL_REQUESTS", 2),
		GenerateFlashcards:   util.GetEnvBool("FEATURE_FLASHCARDS", true),
		GenerateCodeSolution: util.GetEnvBool("FEATURE_CODE_SOLUTION", true),
	})

	result, err := client.Analyze(ctx, data.Problem, data.DomainHint, app.AiClient)
	if err != nil {
		logger.Error("Failed to analyze problem", "err", err)
		if updateErr := storage.UpdateAnalysisStatus(ctx, id, store.StatusFailed); updateErr != nil {
			logger.Warn("Failed to mark analysis as failed", "analysis_id", id, "err", updateErr)
		}
		return c.JSON(http.StatusBadGateway, createAnalysisResponse{
			Message: "Analysis failed",
			ID:      id,
			Status:  store.StatusFailed,
		})
	}

	record.Raw = util.SanitizeText(result.Raw)
	if result.Failed() {
		record.Status = store.StatusFailed
		if err := storage.UpdateAnalysis(ctx, record); err != nil {
			logger.Error("Failed to update analysis", "err", err)
		}
		return c.JSON(http.StatusUnprocessableEntity, createAnalysisResponse{
			Message: "Model response could not be parsed",
			ID:      id,
			Status:  store.StatusFailed,
		})
	}

	record.Status = store.StatusCompleted
	record.Analysis = result.Analysis
	record.Analysis.ID = id
	if err := storage.UpdateAnalysis(ctx, record); err != nil {
		logger.Error("Failed to update analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, createAnalysisResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, createAnalysisResponse{
		Message:  "Analysis completed",
		ID:       id,
		Status:   store.StatusCompleted,
		Analysis: record.Analysis,
	})
}
