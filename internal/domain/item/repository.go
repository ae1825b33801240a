package item

import "context"

// Repository локальное хранилище товаров
type Repository interface {
	// ListWithoutLegacyID возвращает товары с незаполненным legacy_item_id
	ListWithoutLegacyID(ctx context.Context) ([]Item, error)
	// FindByLegacyID ищет товар, которому уже присвоен идентификатор; ErrNotFound если такого нет
	FindByLegacyID(ctx context.Context, legacyID string) (*Item, error)
	// SetLegacyID записывает идентификатор по первичному ключу.
	// ErrLegacyIDTaken если идентификатор уже занят, ErrNotFound если товар не найден или уже связан.
	SetLegacyID(ctx context.Context, id, legacyID string) error
}

// Importer массовая загрузка товаров (заполнение локального хранилища для разработки)
type Importer interface {
	// Import вставляет товары, пустой ID заменяется сгенерированным; возвращает число вставленных
	Import(ctx context.Context, items []Item) (int, error)
}
