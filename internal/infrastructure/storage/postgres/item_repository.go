package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"skusync/internal/domain/item"
)

const itemColumns = `id::text, COALESCE(sku, ''), COALESCE(name, ''), legacy_item_id, brand_id, created_date`

func NewItemRepository(pool *pgxpool.Pool, log *slog.Logger) *ItemRepository {
	return &ItemRepository{
		pool: pool,
		log:  log.With("component", "item_repository"),
	}
}

type ItemRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func (r *ItemRepository) ListWithoutLegacyID(ctx context.Context) ([]item.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE legacy_item_id IS NULL OR btrim(legacy_item_id) = ''
		ORDER BY created_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) FindByLegacyID(ctx context.Context, legacyID string) (*item.Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE legacy_item_id = $1
		LIMIT 1
	`, legacyID)

	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by legacy id: %w", err)
	}
	return &it, nil
}

// SetLegacyID обновляет только незаполненное поле, уникальный индекс страхует от параллельных писателей
func (r *ItemRepository) SetLegacyID(ctx context.Context, id, legacyID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE items
		SET legacy_item_id = $2
		WHERE id = $1 AND (legacy_item_id IS NULL OR btrim(legacy_item_id) = '')
	`, id, legacyID)
	if err != nil {
		if isUniqueViolation(err) {
			return item.ErrLegacyIDTaken
		}
		return fmt.Errorf("failed to set legacy id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Import(ctx context.Context, items []item.Item) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i := range items {
		it := items[i]
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("item %d: %w", i+1, err)
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = time.Now()
		}
		batch.Queue(`
			INSERT INTO items (id, sku, name, legacy_item_id, brand_id, created_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, it.ID, it.SKU, it.Name, it.LegacyID, it.BrandID, it.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range items {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			if isUniqueViolation(err) {
				return 0, item.ErrLegacyIDTaken
			}
			return 0, fmt.Errorf("failed to insert item: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Info("items imported", "count", inserted, "skipped", len(items)-inserted)
	return inserted, nil
}

func scanItem(row pgx.Row) (item.Item, error) {
	var it item.Item
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.LegacyID, &it.BrandID, &it.CreatedAt)
	return it, err
}
