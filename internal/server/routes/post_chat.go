package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"sage/internal/server/middleware"
	serverutil "sage/internal/server/util"
	"sage/internal/util"
	"sage/pkg/ai"
	"sage/pkg/common"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

// ChatHandler answers a follow-up question about a completed analysis.
// The conversation history is persisted and trimmed to a token budget
// before each model call.
func ChatHandler(c echo.Context) error {
	type chatBody struct {
		Message string `json:"message" validate:"required"`
	}

	type chatResponse struct {
		Message  string `json:"message"`
		Response string `json:"response,omitempty"`
	}

	id := c.Param("id")

	data := new(chatBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	record, err := storage.GetAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, chatResponse{
			Message: "Analysis not found",
		})
	}
	if err != nil {
		logger.Error("Failed to get analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, chatResponse{
			Message: "Internal server error",
		})
	}
	if record.Analysis == nil {
		return c.JSON(http.StatusConflict, chatResponse{
			Message: "Analysis has no result yet",
		})
	}

	history, err := storage.GetChatHistory(ctx, id)
	if err != nil {
		logger.Error("Failed to get chat history", "err", err)
		return c.JSON(http.StatusInternalServerError, chatResponse{
			Message: "Internal server error",
		})
	}

	userMessage := ai.ChatMessage{
		Role:    "user",
		Message: data.Message,
	}
	history = append(history, userMessage)

	budget := util.GetEnvInt("CHAT_HISTORY_TOKEN_BUDGET", serverutil.DefaultHistoryTokenBudget)
	history = serverutil.TrimHistoryToBudget(history, budget)

	systemPrompt := fmt.Sprintf(
		ai.TutorChatPrompt,
		record.Analysis.ProblemSummary,
		stepsText(record.Analysis.Steps),
	)

	answer, err := app.AiClient.GenerateChat(
		ctx,
		history,
		ai.WithSystemPrompts(systemPrompt),
	)
	if err != nil {
		logger.Error("Failed to generate chat response", "err", err)
		return c.JSON(http.StatusBadGateway, chatResponse{
			Message: "Chat failed",
		})
	}

	if err := storage.SaveChatMessage(ctx, id, userMessage); err != nil {
		logger.Error("Failed to save chat message", "err", err)
	}
	assistantMessage := ai.ChatMessage{
		Role:    "assistant",
		Message: util.SanitizeText(answer),
	}
	if err := storage.SaveChatMessage(ctx, id, assistantMessage); err != nil {
		logger.Error("Failed to save chat message", "err", err)
	}

	return c.JSON(http.StatusOK, chatResponse{
		Message:  "OK",
		Response: answer,
	})
}

func stepsText(steps []common.Step) string {
	var b strings.Builder
	for i, s := range steps {
		fmt.Fprintf(&b, "%s: %s", s.StepID, s.Explanation)
		if i < len(steps)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// GetChatHistoryHandler returns the stored conversation for an analysis.
func GetChatHistoryHandler(c echo.Context) error {
	type chatHistoryResponse struct {
		Message  string           `json:"message"`
		Messages []ai.ChatMessage `json:"messages,omitempty"`
	}

	id := c.Param("id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	if _, err := storage.GetAnalysis(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, chatHistoryResponse{
				Message: "Analysis not found",
			})
		}
		logger.Error("Failed to get analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, chatHistoryResponse{
			Message: "Internal server error",
		})
	}

	messages, err := storage.GetChatHistory(ctx, id)
	if err != nil {
		logger.Error("Failed to get chat history", "err", err)
		return c.JSON(http.StatusInternalServerError, chatHistoryResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, chatHistoryResponse{
		Message:  "OK",
		Messages: messages,
	})
}
