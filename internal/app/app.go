// Package app собирает зависимости: хранилище, клиент каталога и сервисы
package app

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"skusync/internal/config"
	"skusync/internal/domain/compare"
	"skusync/internal/domain/sync"
	"skusync/internal/infrastructure/inventory"
	"skusync/internal/infrastructure/storage"
)

type App struct {
	log     *slog.Logger
	storage storage.Storage

	Sync    *sync.Service
	Compare *compare.Service
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	st, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	tokens := inventory.NewTokenProvider(cfg.Inventory, nil, log)
	client := inventory.NewClient(cfg.Inventory, tokens, nil, log)

	syncService := sync.NewService(st.Items(), client, tokens, st.Runs(), log, &sync.ServiceConfig{
		BatchSize:        cfg.Sync.BatchSize,
		InterRecordDelay: cfg.Sync.InterRecordDelay,
		InterBatchDelay:  cfg.Sync.InterBatchDelay,
	})
	compareService := compare.NewService(client, log, compare.Config{
		RequestDelay: cfg.Sync.InterRecordDelay,
	})

	return &App{
		log:     log,
		storage: st,
		Sync:    syncService,
		Compare: compareService,
	}, nil
}

// Items товары локального хранилища (импорт выгрузки)
func (a *App) Items() storage.Items {
	return a.storage.Items()
}

// Ping доступность локального хранилища
func (a *App) Ping(ctx context.Context) error {
	return a.storage.Ping(ctx)
}

func (a *App) Close() error {
	a.log.Debug("closing storage")
	return a.storage.Close()
}
