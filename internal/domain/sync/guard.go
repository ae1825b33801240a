package sync

import (
	"context"
	"errors"
	"fmt"

	"skusync/internal/domain/item"
)

// ConflictGuard не дает присвоить один внешний идентификатор двум товарам.
// Сам ничего не пишет: между проверкой и записью остается узкое окно гонки
// с внешними писателями, запись дополнительно защищена уникальным индексом.
type ConflictGuard struct {
	items item.Repository
}

func NewConflictGuard(items item.Repository) *ConflictGuard {
	return &ConflictGuard{items: items}
}

func (g *ConflictGuard) CheckAndClaim(ctx context.Context, candidate item.Item, remoteID string) (Verdict, error) {
	owner, err := g.items.FindByLegacyID(ctx, remoteID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return Verdict{Approved: true}, nil
		}
		return Verdict{}, fmt.Errorf("check legacy id %s: %w", remoteID, err)
	}

	if owner.ID == candidate.ID {
		return Verdict{Approved: true}, nil
	}

	return Verdict{Approved: false, Owner: owner}, nil
}
