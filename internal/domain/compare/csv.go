package compare

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrMissingColumn = errors.New("csv: required column missing")

var requiredColumns = []string{"sku", "name", "cost_price"}

// ReadRows читает выгрузку с заголовком sku,name,cost_price (порядок и регистр не важны, BOM допускается).
// Нечисловая себестоимость считается отсутствующей.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

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
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	field := func(record []string, col string) string {
		idx := columns[col]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read error: %w", err)
		}

		rows = append(rows, Row{
			SKU:       field(record, "sku"),
			Name:      field(record, "name"),
			CostPrice: parsePrice(field(record, "cost_price")),
		})
	}

	return rows, nil
}

func parsePrice(s string) decimal.NullDecimal {
	s = strings.TrimLeft(s, "£$€ ")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

var resultHeader = []string{
	"sku",
	"csv_name",
	"csv_cost_price",
	"remote_found",
	"remote_item_id",
	"remote_name",
	"remote_purchase_rate",
	"remote_selling_rate",
	"remote_stock",
	"remote_status",
	"price_comparison",
	"name_comparison",
	"price_difference",
	"remote_error",
}

// WriteResults пишет построчный результат сравнения
func WriteResults(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(resultHeader); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	for _, res := range results {
		record := []string{
			res.Row.SKU,
			res.Row.Name,
			nullString(res.Row.CostPrice),
			fmt.Sprint(res.Found),
			"", "", "", "", "", "",
			string(res.Price),
			string(res.Name),
			nullString(res.PriceDiff),
			res.Error,
		}
		if res.Remote != nil {
			record[4] = res.Remote.ItemID
			record[5] = res.Remote.Name
			record[6] = res.Remote.PurchaseRate.String()
			record[7] = res.Remote.Rate.String()
			record[8] = res.Remote.StockOnHand.String()
			record[9] = res.Remote.Status
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
