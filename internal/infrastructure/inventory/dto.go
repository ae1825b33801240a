package inventory

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"

	"skusync/internal/domain/catalog"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}

type itemsResponse struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Items   []itemDTO `json:"items"`
}

type itemDTO struct {
	ItemID       string `json:"item_id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	PurchaseRate amount `json:"purchase_rate"`
	Rate         amount `json:"rate"`
	StockOnHand  amount `json:"stock_on_hand"`
	Status       string `json:"status"`
}

func (d itemDTO) toDomain() *catalog.Item {
	return &catalog.Item{
		ItemID:       d.ItemID,
		SKU:          d.SKU,
		Name:         d.Name,
		PurchaseRate: decimal.Decimal(d.PurchaseRate),
		Rate:         decimal.Decimal(d.Rate),
		StockOnHand:  decimal.Decimal(d.StockOnHand),
		Status:       d.Status,
	}
}

// amount денежное значение: число, строка с числом, пустая строка или null (ноль)
type amount decimal.Decimal

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*a = amount(decimal.Zero)
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("некорректная сумма %s: %w", data, err)
	}
	*a = amount(d)
	return nil
}
