package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"skusync/internal/domain/compare"
)

var compareOut string

var compareCmd = &cobra.Command{
	Use:   "compare <file.csv>",
	Short: "Сверить выгрузку (sku,name,cost_price) с каталогом",
	Long: `Для каждой строки выгрузки ищет позицию каталога по артикулу, сравнивает
себестоимость с ценой продажи (допуск 0.01) и названия, пишет построчный
результат в CSV рядом с исходным файлом.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("ошибка открытия файла: %w", err)
		}
		rows, err := compare.ReadRows(in)
		in.Close()
		if err != nil {
			return err
		}
		log.Info("rows loaded", "file", args[0], "rows", len(rows))

		report, runErr := application.Compare.Run(cmd.Context(), rows)
		if report == nil {
			return runErr
		}

		path := compareOut
		if path == "" {
			path = compare.OutputName(args[0], time.Now())
		}
		if err := writeResults(path, report.Results); err != nil {
			return err
		}
		log.Info("results saved", "file", path)

		if err := render(cmd, reportView{report}); err != nil {
			return err
		}
		return runErr
	},
}

func writeResults(path string, results []compare.Result) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	return compare.WriteResults(out, results)
}

func init() {
	compareCmd.Flags().StringVar(&compareOut, "out", "", "файл результатов (по умолчанию <имя>_comparison_<время>.csv)")
}
