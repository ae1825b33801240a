package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item позиция каталога удаленного сервиса, только для чтения
type Item struct {
	ItemID       string          `json:"item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	Rate         decimal.Decimal `json:"rate"`
	StockOnHand  decimal.Decimal `json:"stock_on_hand"`
	Status       string          `json:"status"`
}

// Credential токен доступа к удаленному API
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// ValidAt токен можно использовать только строго до ExpiresAt
func (c Credential) ValidAt(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}
