package storage

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"skusync/internal/config"
	"skusync/internal/domain/item"
	"skusync/internal/domain/sync"
	"skusync/internal/infrastructure/storage/postgres"
	"skusync/internal/infrastructure/storage/sqlite"
)

// Items товары: чтение, запись legacy_item_id и массовый импорт
type Items interface {
	item.Repository
	item.Importer
}

// Storage локальное хранилище, выбранное по DATABASE_DRIVER
type Storage interface {
	Items() Items
	Runs() sync.RunRepository
	Ping(ctx context.Context) error
	Close() error
}

// Open открывает postgres (с миграциями) или sqlite
func Open(ctx context.Context, db config.DB, log *slog.Logger) (Storage, error) {
	switch db.Driver {
	case config.DriverPostgres:
		st, err := postgres.New(ctx, db)
		if err != nil {
			return nil, err
		}
		log.Info("storage opened", "driver", db.Driver)
		return &pgStorage{
			Storage: st,
			items:   postgres.NewItemRepository(st.Pool(), log),
			runs:    postgres.NewRunRepository(st.Pool(), log),
		}, nil
	case config.DriverSQLite:
		st, err := sqlite.New(db.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("storage opened", "driver", db.Driver, "path", db.SQLitePath)
		return &liteStorage{
			Storage: st,
			items:   sqlite.NewItemRepository(st.DB(), log),
			runs:    sqlite.NewRunRepository(st.DB(), log),
		}, nil
	default:
		return nil, fmt.Errorf("%w: неизвестный драйвер БД %q", config.ErrInvalidConfig, db.Driver)
	}
}

type pgStorage struct {
	*postgres.Storage
	items *postgres.ItemRepository
	runs  *postgres.RunRepository
}

func (s *pgStorage) Items() Items             { return s.items }
func (s *pgStorage) Runs() sync.RunRepository { return s.runs }

type liteStorage struct {
	*sqlite.Storage
	items *sqlite.ItemRepository
	runs  *sqlite.RunRepository
}

func (s *liteStorage) Items() Items             { return s.items }
func (s *liteStorage) Runs() sync.RunRepository { return s.runs }
