package cmd

import (
	"github.com/spf13/cobra"

	"skusync/internal/domain/sync"
)

var dryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Связать товары без legacy_item_id с каталогом",
	Long: `Выполняет полный прогон: проверка доступа к каталогу, план с учетом
вариантов артикула, поиск и запись идентификаторов.

Ctrl+C завершает текущий товар и печатает накопленные итоги.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		summary, err := application.Sync.Run(cmd.Context(), sync.RunOptions{DryRun: dryRun})
		if summary != nil {
			if printErr := render(cmd, summaryView{summary}); printErr != nil {
				return printErr
			}
		}
		return err
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Показать план синхронизации без обращений к каталогу",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		plan, err := application.Sync.Preview(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, planView{plan})
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "История прогонов",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		runs, err := application.Sync.Runs(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		return render(cmd, runsView(runs))
	},
}

func init() {
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "найти и проверить без записи")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "сколько последних прогонов показать")
}
