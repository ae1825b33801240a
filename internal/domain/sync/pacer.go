package sync

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"skusync/internal/domain/catalog"
)

// pacedCatalog выдерживает паузу между любыми двумя обращениями к каталогу,
// включая точный и базовый поиск одного товара
type pacedCatalog struct {
	next    Catalog
	limiter *rate.Limiter
}

func newPacedCatalog(next Catalog, every time.Duration) *pacedCatalog {
	return &pacedCatalog{next: next, limiter: newLimiter(every)}
}

func (c *pacedCatalog) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.FindBySKU(ctx, sku)
}

func newLimiter(every time.Duration) *rate.Limiter {
	if every <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(every), 1)
}
