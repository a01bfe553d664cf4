package analysis

import (
	"context"
	"fmt"
	"strings"

	"sage/internal/util"
	"sage/pkg/ai"
	"sage/pkg/common"
	"sage/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// AnalysisClient orchestrates one tutoring run: prompt the model, recover
// the structured payload from its raw output, validate it into a typed
// analysis, and optionally fan out for extras.
//
// An AnalysisClient should be created using NewAnalysisClient.
type AnalysisClient struct {
	maxRetries         int
	parallelAiRequests int
	withFlashcards     bool
	withCodeSolution   bool
}

// NewAnalysisClientParams defines the configuration parameters for
// creating a new AnalysisClient.
//
// MaxRetries bounds retries of the primary analysis call.
// ParallelAiRequests limits concurrent extra-content calls.
// GenerateFlashcards and GenerateCodeSolution enable the optional
// follow-up calls when the primary response did not include them.
type NewAnalysisClientParams struct {
	MaxRetries           int
	ParallelAiRequests   int
	GenerateFlashcards   bool
	GenerateCodeSolution bool
}

// NewAnalysisClient creates and returns a new AnalysisClient configured
// with the provided parameters.
//
// Example:
//
//	client := analysis.NewAnalysisClient(analysis.NewAnalysisClientParams{
//		MaxRetries:         3,
//		ParallelAiRequests: 2,
//		GenerateFlashcards: true,
//	})
func NewAnalysisClient(params NewAnalysisClientParams) *AnalysisClient {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	parallel := params.ParallelAiRequests
	if parallel <= 0 {
		parallel = 2
	}
	return &AnalysisClient{
		maxRetries:         maxRetries,
		parallelAiRequests: parallel,
		withFlashcards:     params.GenerateFlashcards,
		withCodeSolution:   params.GenerateCodeSolution,
	}
}

// Result is the outcome of one run. Analysis is nil when every extraction
// fallback failed; Raw always retains the model output for inspection.
type Result struct {
	Analysis *common.Analysis `json:"analysis,omitempty"`
	Raw      string           `json:"raw"`
}

// Failed reports whether the run produced no usable analysis.
func (r *Result) Failed() bool {
	return r.Analysis == nil
}

// Analyze runs the full pipeline for one problem. A model transport error
// is returned as error; an unparseable response is not — it yields a
// Result with a nil Analysis so one bad response cannot crash a session.
func (c *AnalysisClient) Analyze(
	ctx context.Context,
	problem string,
	domainHint string,
	aiClient ai.TutorAIClient,
) (*Result, error) {
	if strings.TrimSpace(problem) == "" {
		return nil, fmt.Errorf("empty problem")
	}

	systemPrompt := fmt.Sprintf(ai.AnalyzePrompt, domainHint)
	raw, err := util.RetryWithContext(ctx, c.maxRetries, func(ctx context.Context) (string, error) {
		return aiClient.GenerateCompletion(
			ctx,
			problem,
			ai.WithSystemPrompts(systemPrompt),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("analysis completion failed: %w", err)
	}

	payload, ok := Extract(raw)
	if !ok {
		logger.Warn("[Analysis] Response unparseable, surfacing failure", "raw_len", len(raw))
		return &Result{Raw: raw}, nil
	}

	a := Build(payload)
	if a == nil {
		return &Result{Raw: raw}, nil
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis ID: %w", err)
	}
	a.ID = id

	c.generateExtras(ctx, a, aiClient)

	return &Result{Analysis: a, Raw: raw}, nil
}

// generateExtras fans out for optional content the primary response did
// not carry. Extras are best-effort: a failed call is logged and skipped,
// never fatal.
func (c *AnalysisClient) generateExtras(
	ctx context.Context,
	a *common.Analysis,
	aiClient ai.TutorAIClient,
) {
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelAiRequests)

	if c.withFlashcards && len(a.Flashcards) == 0 {
		eg.Go(func() error {
			prompt := fmt.Sprintf(ai.FlashcardsPrompt, a.ProblemSummary, joinStepText(a.Steps))
			var res flashcardsResponse
			err := aiClient.GenerateCompletionWithFormat(
				gCtx,
				"flashcards",
				"Study cards for the analyzed problem.",
				prompt,
				&res,
			)
			if err != nil {
				logger.Warn("[Analysis] Flashcard generation failed", "err", err)
				return nil
			}
			for _, f := range res.Flashcards {
				if strings.TrimSpace(f.Front) == "" {
					continue
				}
				a.Flashcards = append(a.Flashcards, common.Flashcard{Front: f.Front, Back: f.Back})
			}
			return nil
		})
	}

	if c.withCodeSolution && a.CodeSolution == nil && isCodeDomain(a.Domain) {
		eg.Go(func() error {
			prompt := fmt.Sprintf(ai.CodeSolutionPrompt, a.ProblemSummary)
			var res CodePayload
			err := aiClient.GenerateCompletionWithFormat(
				gCtx,
				"code_solution",
				"Reference implementation for the analyzed problem.",
				prompt,
				&res,
			)
			if err != nil {
				logger.Warn("[Analysis] Code solution generation failed", "err", err)
				return nil
			}
			if strings.TrimSpace(res.Code) != "" {
				a.CodeSolution = &common.CodeSolution{
					Language:    res.Language,
					Code:        res.Code,
					Walkthrough: res.Walkthrough,
				}
			}
			return nil
		})
	}

	_ = eg.Wait()
}

func isCodeDomain(domain string) bool {
	switch strings.ToLower(strings.TrimSpace(domain)) {
	case "programming", "algorithms", "algorithm", "code", "computer science", "cs":
		return true
	}
	return false
}

func joinStepText(steps []common.Step) string {
	var b strings.Builder
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s", i+1, s.Explanation)
		if i < len(steps)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
