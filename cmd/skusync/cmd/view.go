package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"skusync/internal/domain/compare"
	"skusync/internal/domain/sync"
	"skusync/internal/utils/output"
)

// render в табличном формате дополнительно печатает цветную сводку
func render(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()
	if err := formatter.Format(w, v); err != nil {
		return err
	}
	if s, ok := v.(interface{ footer() string }); ok && format == output.FormatTable {
		fmt.Fprintln(w, s.footer())
	}
	return nil
}

type summaryView struct {
	*sync.Summary
}

func (v summaryView) Table() output.Data {
	return output.Data{
		Headers: []string{"SKU", "OUTCOME", "LEGACY ID", "MATCH", "DETAIL"},
		Rows:    resultRows(v.Results),
	}
}

func resultRows(results []sync.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		detail := r.Error
		if r.Owner != "" {
			detail = "owned by " + r.Owner
		}
		rows = append(rows, []string{r.SKU, string(r.Outcome), r.LegacyID, string(r.Match), detail})
	}
	return rows
}

func (v summaryView) footer() string {
	if v.State == sync.StateAborted {
		return color.RedString("Прогон прерван: %s", v.Reason)
	}

	rate := v.SuccessRate() * 100
	paint := color.GreenString
	switch {
	case rate < 50:
		paint = color.RedString
	case rate < 90:
		paint = color.YellowString
	}

	line := fmt.Sprintf("Запланировано %d, обработано %d: обновлено %d, не найдено %d, конфликтов %d, ошибок %d. Успешно %s за %s",
		v.Planned, v.Processed(), v.Updated, v.NotFound, v.Conflict, v.Error,
		paint("%.1f%%", rate), v.Duration().Round(time.Millisecond))
	if v.DryRun {
		line += color.CyanString(" (dry run, без записи)")
	}
	if v.Cancelled {
		line += color.YellowString(" (прервано пользователем)")
	}
	return line
}

type planView struct {
	*sync.Plan
}

func (v planView) Table() output.Data {
	data := output.Data{
		Headers:    []string{"BASE SKU", "REPRESENTATIVE", "REASON", "MEMBERS"},
		RightAlign: []int{3},
	}
	for _, g := range v.Groups {
		data.Rows = append(data.Rows, []string{
			g.BaseSKU, g.Representative.SKU, string(g.Reason), strconv.Itoa(len(g.Members)),
		})
	}
	return data
}

func (v planView) footer() string {
	line := fmt.Sprintf("Без legacy_item_id: %d, пустой артикул: %d, к обработке: %s, свернуто вариантов: %d",
		v.Total, v.SkippedBlank, color.GreenString("%d", len(v.Items)), v.Collapsed)

	brands := v.Brands()
	names := make([]string, 0, len(brands))
	for b := range brands {
		names = append(names, b)
	}
	sort.Strings(names)
	for _, b := range names {
		label := b
		if label == "" {
			label = "(без бренда)"
		}
		line += fmt.Sprintf("\n  %s: %d", label, brands[b])
	}

	if dups := v.DuplicateSKUs(); len(dups) > 0 {
		line += color.YellowString("\nАртикулы у нескольких товаров: %d", len(dups))
	}
	return line
}

type runsView []sync.Summary

func (v runsView) Table() output.Data {
	data := output.Data{
		Headers:    []string{"ID", "STARTED", "STATE", "DRY RUN", "PLANNED", "UPDATED", "NOT FOUND", "CONFLICT", "ERROR"},
		RightAlign: []int{4, 5, 6, 7, 8},
	}
	for _, s := range v {
		data.Rows = append(data.Rows, []string{
			s.ID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(s.State),
			strconv.FormatBool(s.DryRun),
			strconv.Itoa(s.Planned),
			strconv.Itoa(s.Updated),
			strconv.Itoa(s.NotFound),
			strconv.Itoa(s.Conflict),
			strconv.Itoa(s.Error),
		})
	}
	return data
}

type reportView struct {
	*compare.Report
}

func (v reportView) Table() output.Data {
	data := output.Data{
		Headers:    []string{"SKU", "CSV COST", "REMOTE RATE", "DIFF", "PRICE", "NAME"},
		RightAlign: []int{1, 2, 3},
	}
	for _, r := range v.TopPriceDiscrepancies(10) {
		data.Rows = append(data.Rows, []string{
			r.Row.SKU,
			r.Row.CostPrice.Decimal.StringFixed(2),
			r.Remote.Rate.StringFixed(2),
			r.PriceDiff.Decimal.StringFixed(2),
			string(r.Price),
			string(r.Name),
		})
	}
	return data
}

func (v reportView) footer() string {
	line := fmt.Sprintf("Строк %d, найдено %d, не найдено %d, цены совпали %d, названия совпали %d",
		v.Total, v.Found, v.NotFound(), v.PriceMatches, v.NameMatches)
	if avg, maxAbs, ok := v.PriceDiffStats(); ok {
		line += fmt.Sprintf("\nРасхождение цены: среднее %s, максимум %s", avg.StringFixed(2), maxAbs.StringFixed(2))
	}
	if n := len(v.NameMismatches()); n > 0 {
		line += color.YellowString("\nРазные названия: %d", n)
	}
	if v.Cancelled {
		line += color.YellowString("\nСверка прервана, результаты неполные")
	}
	return line
}

type importView struct {
	Read     int `json:"read"`
	Inserted int `json:"inserted"`
}

func (v importView) Table() output.Data {
	return output.Data{
		Headers: []string{"READ", "INSERTED", "SKIPPED"},
		Rows: [][]string{{
			strconv.Itoa(v.Read), strconv.Itoa(v.Inserted), strconv.Itoa(v.Read - v.Inserted),
		}},
		RightAlign: []int{0, 1, 2},
	}
}
