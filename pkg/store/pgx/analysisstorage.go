package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sage/pkg/ai"
	"sage/pkg/common"
	"sage/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// AnalysisDBStorage implements store.AnalysisStorage on PostgreSQL. The
// structured analysis is stored as a JSONB document next to the raw model
// output, so a failed extraction is still inspectable.
type AnalysisDBStorage struct {
	conn pgxIConn
}

// NewAnalysisDBStorageWithConnection creates storage over an existing
// connection or pool.
func NewAnalysisDBStorageWithConnection(conn pgxIConn) *AnalysisDBStorage {
	return &AnalysisDBStorage{
		conn: conn,
	}
}

func marshalAnalysis(analysis *common.Analysis) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return data, nil
}

func (s *AnalysisDBStorage) SaveAnalysis(ctx context.Context, record *store.AnalysisRecord) error {
	data, err := marshalAnalysis(record.Analysis)
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO analyses (public_id, problem, domain_hint, status, raw_output, analysis)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.Problem, record.DomainHint, record.Status, record.Raw, data)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (s *AnalysisDBStorage) UpdateAnalysis(ctx context.Context, record *store.AnalysisRecord) error {
	data, err := marshalAnalysis(record.Analysis)
	if err != nil {
		return err
	}

	tag, err := s.conn.Exec(ctx, `
		UPDATE analyses
		SET status = $2, raw_output = $3, analysis = $4, updated_at = now()
		WHERE public_id = $1
	`, record.ID, record.Status, record.Raw, data)
	if err != nil {
		return fmt.Errorf("failed to update analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateAnalysisStatus flips the lifecycle status without touching the
// raw output or the analysis document, so marking a record failed never
// discards output that was already persisted.
func (s *AnalysisDBStorage) UpdateAnalysisStatus(ctx context.Context, id, status string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE analyses
		SET status = $2, updated_at = now()
		WHERE public_id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update analysis status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *AnalysisDBStorage) GetAnalysis(ctx context.Context, id string) (*store.AnalysisRecord, error) {
	record := store.AnalysisRecord{}
	var data []byte

	err := s.conn.QueryRow(ctx, `
		SELECT public_id, problem, domain_hint, status, raw_output, analysis, created_at, updated_at
		FROM analyses
		WHERE public_id = $1
	`, id).Scan(
		&record.ID,
		&record.Problem,
		&record.DomainHint,
		&record.Status,
		&record.Raw,
		&data,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if len(data) > 0 {
		analysis := common.Analysis{}
		if err := json.Unmarshal(data, &analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
		record.Analysis = &analysis
	}

	return &record, nil
}

func (s *AnalysisDBStorage) ListAnalyses(ctx context.Context, limit, offset int) ([]store.AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.conn.Query(ctx, `
		SELECT public_id, problem, status, created_at,
			coalesce(analysis->>'domain', '') AS domain,
			coalesce(analysis->>'problem_summary', '') AS problem_summary
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := make([]store.AnalysisSummary, 0)
	for rows.Next() {
		summary := store.AnalysisSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Problem,
			&summary.Status,
			&summary.CreatedAt,
			&summary.Domain,
			&summary.ProblemSummary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analysis rows: %w", err)
	}

	return summaries, nil
}

func (s *AnalysisDBStorage) DeleteAnalysis(ctx context.Context, id string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM analyses WHERE public_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *AnalysisDBStorage) SaveChatMessage(ctx context.Context, analysisID string, message ai.ChatMessage) error {
	tag, err := s.conn.Exec(ctx, `
		INSERT INTO chat_messages (analysis_id, role, content)
		SELECT id, $2, $3 FROM analyses WHERE public_id = $1
	`, analysisID, message.Role, message.Message)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *AnalysisDBStorage) GetChatHistory(ctx context.Context, analysisID string) ([]ai.ChatMessage, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT m.role, m.content
		FROM chat_messages m
		JOIN analyses a ON a.id = m.analysis_id
		WHERE a.public_id = $1
		ORDER BY m.id ASC
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	defer rows.Close()

	messages := make([]ai.ChatMessage, 0)
	for rows.Next() {
		message := ai.ChatMessage{}
		if err := rows.Scan(&message.Role, &message.Message); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat messages: %w", err)
	}

	return messages, nil
}
