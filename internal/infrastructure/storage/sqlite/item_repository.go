package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"skusync/internal/domain/item"
)

type ItemRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewItemRepository(db *sql.DB, log *slog.Logger) *ItemRepository {
	return &ItemRepository{
		db:  db,
		log: log.With("component", "item_repository"),
	}
}

func (r *ItemRepository) ListWithoutLegacyID(ctx context.Context) ([]item.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(sku, ''), name, legacy_item_id, brand_id, created_date
		FROM items
		WHERE legacy_item_id IS NULL OR trim(legacy_item_id) = ''
		ORDER BY created_date, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения товаров: %w", err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения товара: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *ItemRepository) FindByLegacyID(ctx context.Context, legacyID string) (*item.Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(sku, ''), name, legacy_item_id, brand_id, created_date
		FROM items
		WHERE legacy_item_id = ?
		LIMIT 1
	`, legacyID)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, item.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска товара: %w", err)
	}
	return &it, nil
}

func (r *ItemRepository) SetLegacyID(ctx context.Context, id, legacyID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET legacy_item_id = ?
		WHERE id = ? AND (legacy_item_id IS NULL OR trim(legacy_item_id) = '')
	`, legacyID, id)
	if err != nil {
		if isUniqueViolation(err) {
			return item.ErrLegacyIDTaken
		}
		return fmt.Errorf("ошибка обновления товара: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка обновления товара: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}

// Import вставляет товары в одной транзакции; товары с уже существующим ID пропускаются
func (r *ItemRepository) Import(ctx context.Context, items []item.Item) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, sku, name, legacy_item_id, brand_id, created_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range items {
		it := items[i]
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("товар %d: %w", i+1, err)
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = time.Now()
		}

		res, err := stmt.ExecContext(ctx, it.ID, it.SKU, it.Name, it.LegacyID, it.BrandID, it.CreatedAt.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return 0, fmt.Errorf("товар %d: %w", i+1, item.ErrLegacyIDTaken)
			}
			return 0, fmt.Errorf("ошибка вставки товара: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	r.log.Info("items imported", "count", inserted, "skipped", len(items)-inserted)
	return inserted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (item.Item, error) {
	var it item.Item
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.LegacyID, &it.BrandID, &it.CreatedAt)
	return it, err
}
