package item

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var createdLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// ReadCSV читает выгрузку товаров. Обязательны колонки sku и name,
// необязательны id, legacy_item_id, brand_id, created_date.
func ReadCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv data is empty")
		}
		return nil, fmt.Errorf("csv read error: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"sku", "name"} {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("csv: required column missing: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := columns[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	optional := func(record []string, col string) *string {
		if v := field(record, col); v != "" {
			return &v
		}
		return nil
	}

	var items []Item
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read error: %w", err)
		}

		it := Item{
			ID:       field(record, "id"),
			SKU:      field(record, "sku"),
			Name:     field(record, "name"),
			LegacyID: optional(record, "legacy_item_id"),
			BrandID:  optional(record, "brand_id"),
		}
		if created := field(record, "created_date"); created != "" {
			it.CreatedAt, err = parseCreated(created)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, it)
	}

	return items, nil
}

func parseCreated(s string) (time.Time, error) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad created_date %q", ErrInvalidItem, s)
}
