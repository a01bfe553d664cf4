package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sage/internal/util"
	"sage/pkg/ai"
	"sage/pkg/analysis"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

// AnalyzeJobMsg is the payload of one async analysis job.
type AnalyzeJobMsg struct {
	AnalysisID string `json:"analysis_id"`
	Problem    string `json:"problem"`
	DomainHint string `json:"domain_hint,omitempty"`
}

// ProcessAnalyzeMessage runs one analysis job end to end: call the model,
// extract the structured analysis, persist the outcome. A transport or
// database error is returned so the caller can retry the message; an
// unextractable model response is terminal and marks the record failed.
func ProcessAnalyzeMessage(
	ctx context.Context,
	aiClient ai.TutorAIClient,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(AnalyzeJobMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode analyze job: %w", err)
	}

	storage := analysisstorage.NewAnalysisDBStorageWithConnection(conn)

	defer func() {
		if err == nil || data.AnalysisID == "" {
			return
		}
		// status only: raw output persisted by an earlier attempt must survive
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := storage.UpdateAnalysisStatus(updateCtx, data.AnalysisID, store.StatusFailed); updateErr != nil {
			logger.Warn("[Queue] Failed to mark analysis as failed", "analysis_id", data.AnalysisID, "err", updateErr)
		}
	}()

	client := analysis.NewAnalysisClient(analysis.NewAnalysisClientParams{
		MaxRetries:           util.GetEnvInt("AI_MAX_RETRIES", 3),
		ParallelAiRequests:   util.GetEnvInt("AI_PARALLEL_REQUESTS", 2),
		GenerateFlashcards:   util.GetEnvBool("FEATURE_FLASHCARDS", true),
		GenerateCodeSolution: util.GetEnvBool("FEATURE_CODE_SOLUTION", true),
	})

	result, err := client.Analyze(ctx, data.Problem, data.DomainHint, aiClient)
	if err != nil {
		return fmt.Errorf("failed to analyze problem: %w", err)
	}

	record := &store.AnalysisRecord{
		ID:  data.AnalysisID,
		Raw: util.SanitizeText(result.Raw),
	}

	if result.Failed() {
		// the model answered but no JSON could be recovered; retrying
		// the same prompt is unlikely to help, keep the raw output
		logger.Warn("[Queue] Analysis produced no extractable result", "analysis_id", data.AnalysisID)
		record.Status = store.StatusFailed
		return storage.UpdateAnalysis(ctx, record)
	}

	record.Status = store.StatusCompleted
	record.Analysis = result.Analysis
	record.Analysis.ID = data.AnalysisID

	if err = storage.UpdateAnalysis(ctx, record); err != nil {
		return fmt.Errorf("failed to persist analysis: %w", err)
	}

	logger.Info("[Queue] Analysis completed", "analysis_id", data.AnalysisID, "steps", len(record.Analysis.Steps))
	return nil
}
