package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"skusync/internal/domain/catalog"
	"skusync/internal/domain/sku"
)

// Resolver ищет позицию каталога сначала по точному артикулу, затем по базовому
type Resolver struct {
	catalog Catalog
	log     *slog.Logger
}

func NewResolver(c Catalog, log *slog.Logger) *Resolver {
	return &Resolver{
		catalog: c,
		log:     log.With("component", "resolver"),
	}
}

// Resolve возвращает catalog.ErrNotFound, если ни одна из стратегий не дала результата.
// Любая другая ошибка каталога возвращается сразу, без попытки базового артикула.
func (r *Resolver) Resolve(ctx context.Context, s string) (*Resolution, error) {
	found, err := r.lookup(ctx, s)
	if err == nil {
		r.log.Debug("exact match", "sku", s, "item_id", found.ItemID)
		return &Resolution{Item: found, Match: MatchExact, QueriedSKU: s}, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return nil, fmt.Errorf("lookup %q: %w", s, err)
	}

	base := sku.DeriveBase(s)
	if base == s {
		return nil, catalog.ErrNotFound
	}

	r.log.Debug("trying base sku", "sku", s, "base_sku", base)
	found, err = r.lookup(ctx, base)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("lookup base %q: %w", base, err)
	}

	r.log.Debug("base sku match", "sku", s, "base_sku", base, "item_id", found.ItemID)
	return &Resolution{Item: found, Match: MatchBase, QueriedSKU: base}, nil
}

// lookup позиция с пустым item_id считается ненайденной
func (r *Resolver) lookup(ctx context.Context, s string) (*catalog.Item, error) {
	found, err := r.catalog.FindBySKU(ctx, s)
	if err != nil {
		return nil, err
	}
	if found == nil || strings.TrimSpace(found.ItemID) == "" {
		r.log.Warn("catalog item without item_id", "sku", s)
		return nil, catalog.ErrNotFound
	}
	return found, nil
}
