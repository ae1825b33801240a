package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"skusync/internal/domain/catalog"
	"skusync/internal/domain/sku"
)

// Catalog поиск позиции каталога по артикулу
type Catalog interface {
	FindBySKU(ctx context.Context, sku string) (*catalog.Item, error)
}

type Service struct {
	catalog Catalog
	log     *slog.Logger
	config  Config
}

func NewService(c Catalog, log *slog.Logger, config Config) *Service {
	if config.Tolerance.IsZero() {
		config.Tolerance = DefaultTolerance
	}
	if config.ProgressEvery <= 0 {
		config.ProgressEvery = 25
	}
	return &Service{
		catalog: c,
		log:     log.With("component", "compare_service"),
		config:  config,
	}
}

// Run сверяет строки по очереди. Ошибка возвращается только при отказе авторизации,
// прочие сбои каталога попадают в Result.Error. При отмене ctx возвращаются накопленные итоги.
func (s *Service) Run(ctx context.Context, rows []Row) (*Report, error) {
	report := &Report{Total: len(rows)}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if s.config.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.config.RequestDelay), 1)
	}

	for i, row := range rows {
		if err := limiter.Wait(ctx); err != nil {
			report.Cancelled = true
			break
		}

		res, err := s.compareRow(ctx, row)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
		if res.Found {
			report.Found++
			if res.Price == PriceMatch {
				report.PriceMatches++
			}
			if res.Name == NameExact || res.Name == NamePartial {
				report.NameMatches++
			}
		}

		if (i+1)%s.config.ProgressEvery == 0 {
			s.log.Info("progress",
				"processed", i+1,
				"total", len(rows),
				"found", report.Found,
				"found_rate", fmt.Sprintf("%.1f%%", float64(report.Found)/float64(i+1)*100),
			)
		}
	}

	return report, nil
}

func (s *Service) compareRow(ctx context.Context, row Row) (Result, error) {
	res := Result{Row: row, Price: PriceNotFound, Name: NameNotFound}

	if sku.IsBlank(row.SKU) {
		res.Error = "empty sku"
		return res, nil
	}

	remote, err := s.catalog.FindBySKU(ctx, row.SKU)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.log.Info("not found in catalog", "sku", row.SKU)
		res.Error = "no item found with this sku"
		return res, nil
	case catalog.IsAuthError(err):
		return res, err
	case err != nil:
		s.log.Warn("catalog lookup failed", "sku", row.SKU, "error", err)
		res.Error = err.Error()
		return res, nil
	}

	res.Found = true
	res.Remote = remote
	res.Price = Prices(row.CostPrice, remote.Rate, s.config.Tolerance)
	res.Name = Names(row.Name, remote.Name)
	if row.CostPrice.Valid {
		res.PriceDiff = decimal.NewNullDecimal(row.CostPrice.Decimal.Sub(remote.Rate))
	}

	if res.Price != PriceMatch && res.PriceDiff.Valid {
		s.log.Info("price differs",
			"sku", row.SKU,
			"local_cost", row.CostPrice.Decimal.String(),
			"remote_rate", remote.Rate.String(),
			"diff", res.PriceDiff.Decimal.StringFixed(2),
		)
	}
	if res.Name == NameDifferent {
		s.log.Info("name differs", "sku", row.SKU, "local", row.Name, "remote", remote.Name)
	}

	return res, nil
}

// OutputName имя файла результатов рядом с исходным: Analysis.csv -> Analysis_comparison_20250101_120000.csv
func OutputName(input string, now time.Time) string {
	return strings.TrimSuffix(input, ".csv") + "_comparison_" + now.Format("20060102_150405") + ".csv"
}
