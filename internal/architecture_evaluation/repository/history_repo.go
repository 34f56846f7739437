package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
)

// HistoryEntry is one stored evaluation of an architecture.
type HistoryEntry struct {
	ID              string                       `json:"id"`
	ArchitectureID  string                       `json:"architecture_id"`
	OverallScore    float64                      `json:"overall_score"`
	ParameterScores map[domain.Parameter]float64 `json:"parameter_scores"`
	Valid           bool                         `json:"valid"`
	ViolationCount  int                          `json:"violation_count"`
	WarningCount    int                          `json:"warning_count"`
	BottleneckIDs   []string                     `json:"bottleneck_ids"`
	Trigger         string                       `json:"trigger"`
	EvaluatedAt     time.Time                    `json:"evaluated_at"`
}

// NewHistoryEntry summarizes a report for the history table.
func NewHistoryEntry(r *evaluation.Report, trigger string) *HistoryEntry {
	ids := make([]string, 0, len(r.Bottlenecks))
	for _, b := range r.Bottlenecks {
		ids = append(ids, b.ComponentID)
	}
	return &HistoryEntry{
		ArchitectureID:  r.ArchitectureID,
		OverallScore:    r.OverallScore,
		ParameterScores: r.ParameterScores,
		Valid:           r.Valid,
		ViolationCount:  len(r.Violations),
		WarningCount:    len(r.Warnings),
		BottleneckIDs:   ids,
		Trigger:         trigger,
		EvaluatedAt:     r.EvaluatedAt,
	}
}

// HistoryRepository is an append-only log of evaluation results.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, e *HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = time.Now().UTC()
	}

	paramsJSON, err := json.Marshal(e.ParameterScores)
	if err != nil {
		paramsJSON = []byte("{}")
	}

	query := `
		INSERT INTO evaluation_history (
			id, architecture_id, overall_score, parameter_scores, valid,
			violation_count, warning_count, bottleneck_ids, trigger, evaluated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.ArchitectureID,
		e.OverallScore,
		paramsJSON,
		e.Valid,
		e.ViolationCount,
		e.WarningCount,
		pq.Array(e.BottleneckIDs),
		e.Trigger,
		e.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append evaluation history: %w", err)
	}
	return nil
}

// ListByArchitecture returns the newest entries first. limit <= 0 means 50.
func (r *HistoryRepository) ListByArchitecture(ctx context.Context, architectureID string, limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, architecture_id, overall_score, parameter_scores, valid,
		       violation_count, warning_count, bottleneck_ids, trigger, evaluated_at
		FROM evaluation_history
		WHERE architecture_id = $1
		ORDER BY evaluated_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, architectureID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation history: %w", err)
	}
	defer rows.Close()

	out := []*HistoryEntry{}
	for rows.Next() {
		var (
			e          HistoryEntry
			paramsJSON []byte
			ids        pq.StringArray
			trigger    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ArchitectureID, &e.OverallScore, &paramsJSON, &e.Valid,
			&e.ViolationCount, &e.WarningCount, &ids, &trigger, &e.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation history: %w", err)
		}
		e.ParameterScores = map[domain.Parameter]float64{}
		if len(paramsJSON) > 0 {
			if err := json.Unmarshal(paramsJSON, &e.ParameterScores); err != nil {
				e.ParameterScores = map[domain.Parameter]float64{}
			}
		}
		e.BottleneckIDs = []string(ids)
		if e.BottleneckIDs == nil {
			e.BottleneckIDs = []string{}
		}
		e.Trigger = trigger.String
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read evaluation history: %w", err)
	}
	return out, nil
}

func (r *HistoryRepository) DeleteByArchitecture(ctx context.Context, architectureID string) error {
	query := `DELETE FROM evaluation_history WHERE architecture_id = $1`
	if _, err := r.db.ExecContext(ctx, query, architectureID); err != nil {
		return fmt.Errorf("failed to delete evaluation history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
