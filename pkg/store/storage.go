package store

import (
	"context"
	"errors"
	"time"

	"sage/pkg/ai"
	"sage/pkg/common"
)

// ErrNotFound is returned when an analysis or chat history lookup misses.
var ErrNotFound = errors.New("store: not found")

// Analysis lifecycle states. An async job starts pending and ends in
// completed or failed; a failed record still keeps the raw model output
// for inspection.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// AnalysisRecord is the persisted form of one tutoring analysis request.
type AnalysisRecord struct {
	ID         string
	Problem    string
	DomainHint string
	Status     string
	Raw        string
	Analysis   *common.Analysis
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AnalysisSummary is the list view of a record, without the graph payload.
type AnalysisSummary struct {
	ID             string
	Problem        string
	Domain         string
	ProblemSummary string
	Status         string
	CreatedAt      time.Time
}

// AnalysisStorage persists analyses and their tutoring chat history.
type AnalysisStorage interface {
	SaveAnalysis(ctx context.Context, record *AnalysisRecord) error
	UpdateAnalysis(ctx context.Context, record *AnalysisRecord) error
	UpdateAnalysisStatus(ctx context.Context, id, status string) error
	GetAnalysis(ctx context.Context, id string) (*AnalysisRecord, error)
	ListAnalyses(ctx context.Context, limit, offset int) ([]AnalysisSummary, error)
	DeleteAnalysis(ctx context.Context, id string) error

	SaveChatMessage(ctx context.Context, analysisID string, message ai.ChatMessage) error
	GetChatHistory(ctx context.Context, analysisID string) ([]ai.ChatMessage, error)
}
