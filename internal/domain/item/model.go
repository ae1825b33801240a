package item

import (
	"fmt"
	"strings"
	"time"
)

// Item товар в локальном хранилище
type Item struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	LegacyID  *string   `json:"legacy_item_id,omitempty"`
	BrandID   *string   `json:"brand_id,omitempty"`
	CreatedAt time.Time `json:"created_date"`
}

// HasLegacyID заполнен ли внешний идентификатор
func (i *Item) HasLegacyID() bool {
	return i.LegacyID != nil && strings.TrimSpace(*i.LegacyID) != ""
}

// Brand ключ группировки для отчетов, пустая строка если бренд не задан
func (i *Item) Brand() string {
	if i.BrandID == nil {
		return ""
	}
	return *i.BrandID
}

// ShortName укорачивает название для логов
func (i *Item) ShortName(limit int) string {
	r := []rune(i.Name)
	if limit <= 0 || len(r) <= limit {
		return i.Name
	}
	return string(r[:limit]) + "..."
}

// Validate товар без артикула и названия не имеет смысла хранить
func (i *Item) Validate() error {
	if strings.TrimSpace(i.SKU) == "" && strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: sku and name are both empty", ErrInvalidItem)
	}
	if i.HasLegacyID() && strings.TrimSpace(*i.LegacyID) != *i.LegacyID {
		return fmt.Errorf("%w: legacy_item_id has surrounding whitespace", ErrInvalidItem)
	}
	return nil
}
