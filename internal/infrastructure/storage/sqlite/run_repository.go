package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slog"

	"skusync/internal/domain/sync"
)

type RunRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewRunRepository(db *sql.DB, log *slog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With("component", "run_repository"),
	}
}

func (r *RunRepository) SaveRun(ctx context.Context, summary *sync.Summary) error {
	resultsJSON, err := json.Marshal(summary.Notable())
	if err != nil {
		return fmt.Errorf("ошибка сериализации результатов: %w", err)
	}

	var finishedAt sql.NullTime
	if !summary.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: summary.FinishedAt.UTC(), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sync_runs
			(id, state, dry_run, cancelled, planned, updated_count, not_found_count,
			 conflict_count, error_count, reason, results, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			cancelled = excluded.cancelled,
			planned = excluded.planned,
			updated_count = excluded.updated_count,
			not_found_count = excluded.not_found_count,
			conflict_count = excluded.conflict_count,
			error_count = excluded.error_count,
			reason = excluded.reason,
			results = excluded.results,
			finished_at = excluded.finished_at
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
		string(resultsJSON),
		summary.StartedAt.UTC(),
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения прогона: %w", err)
	}

	return nil
}

func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]sync.Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, state, dry_run, cancelled, planned, updated_count, not_found_count,
		       conflict_count, error_count, reason, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прогонов: %w", err)
	}
	defer rows.Close()

	var runs []sync.Summary
	for rows.Next() {
		var (
			s          sync.Summary
			state      string
			finishedAt sql.NullTime
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
			return nil, fmt.Errorf("ошибка чтения прогона: %w", err)
		}
		s.State = sync.State(state)
		if finishedAt.Valid {
			s.FinishedAt = finishedAt.Time
		}
		runs = append(runs, s)
	}

	return runs, rows.Err()
}
