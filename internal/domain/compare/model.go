package compare

import (
	"time"

	"github.com/shopspring/decimal"

	"skusync/internal/domain/catalog"
)

// PriceVerdict результат сравнения локальной себестоимости с ценой продажи в каталоге
type PriceVerdict string

const (
	PriceMatch        PriceVerdict = "match"
	PriceLocalHigher  PriceVerdict = "csv_higher"
	PriceRemoteHigher PriceVerdict = "remote_higher"
	PriceMissingData  PriceVerdict = "missing_data"
	PriceNotFound     PriceVerdict = "not_found"
)

// NameVerdict результат сравнения названий
type NameVerdict string

const (
	NameExact       NameVerdict = "exact_match"
	NamePartial     NameVerdict = "partial_match"
	NameDifferent   NameVerdict = "different"
	NameMissingData NameVerdict = "missing_data"
	NameNotFound    NameVerdict = "not_found"
)

// DefaultTolerance допустимое расхождение цен
var DefaultTolerance = decimal.RequireFromString("0.01")

// Row строка локальной выгрузки
type Row struct {
	SKU       string              `json:"sku"`
	Name      string              `json:"name"`
	CostPrice decimal.NullDecimal `json:"cost_price"`
}

// Result сравнение одной строки
type Result struct {
	Row       Row                 `json:"row"`
	Found     bool                `json:"found"`
	Remote    *catalog.Item       `json:"remote,omitempty"`
	Price     PriceVerdict        `json:"price_comparison"`
	Name      NameVerdict         `json:"name_comparison"`
	PriceDiff decimal.NullDecimal `json:"price_difference"`
	Error     string              `json:"error,omitempty"`
}

// Config параметры сравнения
type Config struct {
	Tolerance     decimal.Decimal
	RequestDelay  time.Duration
	ProgressEvery int
}

// Report итоги сравнения
type Report struct {
	Total        int      `json:"total"`
	Found        int      `json:"found"`
	PriceMatches int      `json:"price_matches"`
	NameMatches  int      `json:"name_matches"`
	Cancelled    bool     `json:"cancelled"`
	Results      []Result `json:"results"`
}

// NotFound строки, которых нет в каталоге
func (r *Report) NotFound() int {
	return len(r.Results) - r.Found
}

// PriceDiffStats среднее и максимальное по модулю расхождение цены среди найденных строк
func (r *Report) PriceDiffStats() (avg, maxAbs decimal.Decimal, ok bool) {
	var sum decimal.Decimal
	n := 0
	for _, res := range r.Results {
		if !res.Found || !res.PriceDiff.Valid {
			continue
		}
		sum = sum.Add(res.PriceDiff.Decimal)
		if abs := res.PriceDiff.Decimal.Abs(); abs.GreaterThan(maxAbs) {
			maxAbs = abs
		}
		n++
	}
	if n == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(n))), maxAbs, true
}

// TopPriceDiscrepancies до n найденных строк с наибольшим расхождением цены
func (r *Report) TopPriceDiscrepancies(n int) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Found && res.Price != PriceMatch && res.PriceDiff.Valid {
			out = append(out, res)
		}
	}
	sortByAbsDiff(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// NameMismatches найденные строки с разными названиями
func (r *Report) NameMismatches() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Found && res.Name == NameDifferent {
			out = append(out, res)
		}
	}
	return out
}
