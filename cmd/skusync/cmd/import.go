package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skusync/internal/domain/item"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Загрузить товары из CSV в локальное хранилище",
	Long: `Колонки: sku, name (обязательные), id, legacy_item_id, brand_id, created_date.
Товары с уже существующим id пропускаются.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("ошибка открытия файла: %w", err)
		}
		defer in.Close()

		items, err := item.ReadCSV(in)
		if err != nil {
			return err
		}

		n, err := application.Items().Import(cmd.Context(), items)
		if err != nil {
			return err
		}

		return render(cmd, importView{Read: len(items), Inserted: n})
	},
}
