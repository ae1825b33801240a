package sync

import (
	"context"

	"skusync/internal/domain/catalog"
)

// Catalog поиск позиции удаленного каталога по точному артикулу
type Catalog interface {
	FindBySKU(ctx context.Context, sku string) (*catalog.Item, error)
}

// Authenticator источник токена удаленного API
type Authenticator interface {
	Token(ctx context.Context) (catalog.Credential, error)
}

// RunRepository история прогонов
type RunRepository interface {
	SaveRun(ctx context.Context, summary *Summary) error
	ListRuns(ctx context.Context, limit int) ([]Summary, error)
}
