package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"skusync/internal/domain/sync"
)

// RunRepository история прогонов синхронизации в PostgreSQL
type RunRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewRunRepository(pool *pgxpool.Pool, log *slog.Logger) *RunRepository {
	return &RunRepository{
		pool: pool,
		log:  log.With("component", "run_repository"),
	}
}

func (r *RunRepository) SaveRun(ctx context.Context, summary *sync.Summary) error {
	resultsJSON, err := json.Marshal(summary.Notable())
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	var finishedAt *time.Time
	if !summary.FinishedAt.IsZero() {
		finishedAt = &summary.FinishedAt
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO sync_runs
			(id, state, dry_run, cancelled, planned, updated_count, not_found_count,
			 conflict_count, error_count, reason, results, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			cancelled = EXCLUDED.cancelled,
			planned = EXCLUDED.planned,
			updated_count = EXCLUDED.updated_count,
			not_found_count = EXCLUDED.not_found_count,
			conflict_count = EXCLUDED.conflict_count,
			error_count = EXCLUDED.error_count,
			reason = EXCLUDED.reason,
			results = EXCLUDED.results,
			finished_at = EXCLUDED.finished_at
	`,
		summary.ID,
		string(summary.State),
		summary.DryRun,
		summary.Cancelled,
		summary.Planned,
		summary.Updated,
		summary.NotFound,
		summary.Conflict,
		summary.Error,
		summary.Reason,
		resultsJSON,
		summary.StartedAt,
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// ListRuns последние прогоны без поэлементных результатов
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]sync.Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, state, dry_run, cancelled, planned, updated_count, not_found_count,
		       conflict_count, error_count, reason, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []sync.Summary
	for rows.Next() {
		var (
			s          sync.Summary
			state      string
			finishedAt *time.Time
		)
		if err := rows.Scan(
			&s.ID,
			&state,
			&s.DryRun,
			&s.Cancelled,
			&s.Planned,
			&s.Updated,
			&s.NotFound,
			&s.Conflict,
			&s.Error,
			&s.Reason,
			&s.StartedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.State = sync.State(state)
		if finishedAt != nil {
			s.FinishedAt = *finishedAt
		}
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
