package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"skusync/internal/app"
	"skusync/internal/config"
	"skusync/internal/utils/logger"
	"skusync/internal/utils/output"
)

var (
	cfgFile      string
	debug        bool
	outputFormat string

	log         *slog.Logger
	application *app.App
	formatter   output.Formatter
	format      output.Format
)

var rootCmd = &cobra.Command{
	Use:   "skusync",
	Short: "skusync - связывание локальных товаров с каталогом по артикулу",
	Long: `skusync находит для товаров без legacy_item_id позицию удаленного каталога
по артикулу (точное совпадение, затем базовый артикул без суффикса варианта)
и записывает найденный идентификатор, не допуская повторного использования.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	format, err = output.Parse(outputFormat)
	if err != nil {
		return err
	}
	formatter = output.New(format)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	level := cfg.Logger.LogLevel
	if debug {
		level = "debug"
	}
	log = logger.NewWriter(os.Stderr, cfg.Env, level)

	application, err = app.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if application == nil {
		return nil
	}
	return application.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "формат вывода: table, json, yaml")

	rootCmd.AddCommand(syncCmd, planCmd, runsCmd, compareCmd, importCmd)
}
