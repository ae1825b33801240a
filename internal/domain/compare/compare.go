// Package compare сверяет локальную выгрузку (артикул, название, себестоимость)
// с позициями удаленного каталога.
package compare

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Prices сравнивает себестоимость из выгрузки с ценой продажи в каталоге
func Prices(local decimal.NullDecimal, remote decimal.Decimal, tolerance decimal.Decimal) PriceVerdict {
	if !local.Valid {
		return PriceMissingData
	}

	diff := local.Decimal.Sub(remote)
	switch {
	case diff.Abs().LessThanOrEqual(tolerance):
		return PriceMatch
	case diff.IsPositive():
		return PriceLocalHigher
	default:
		return PriceRemoteHigher
	}
}

// Names сравнивает названия без учета регистра и формы Unicode
func Names(local, remote string) NameVerdict {
	a, b := foldName(local), foldName(remote)
	if a == "" || b == "" {
		return NameMissingData
	}

	switch {
	case a == b:
		return NameExact
	case strings.Contains(a, b) || strings.Contains(b, a):
		return NamePartial
	default:
		return NameDifferent
	}
}

// foldName Caser хранит состояние, поэтому создается на каждый вызов
func foldName(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

func sortByAbsDiff(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PriceDiff.Decimal.Abs().GreaterThan(results[j].PriceDiff.Decimal.Abs())
	})
}
