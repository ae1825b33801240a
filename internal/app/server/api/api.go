// GET  /api/v1/health      # Проверка живости (публичный)
// GET  /api/v1/sync/plan   # План синхронизации (auth)
// POST /api/v1/sync/runs   # Запуск прогона, ?dry_run=true (auth)
// GET  /api/v1/sync/runs   # История прогонов (auth)

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "skusync/internal/app/server/api/http/health"
	"skusync/internal/app/server/api/http/middleware/auth"
	"skusync/internal/app/server/api/http/middleware/logger"
	syncAPI "skusync/internal/app/server/api/http/sync"
	"skusync/internal/config"
	"skusync/internal/domain/sync"
)

type Handlers struct {
	Health *healthAPI.Handler
	Sync   *syncAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(storage healthAPI.Pinger, syncService sync.Servicer, server config.Server, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	cfg := huma.DefaultConfig("SKU Sync API", "1.0.0")
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, cfg)

	h := handlers(storage, syncService, server, log)
	h.Health.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(storage healthAPI.Pinger, syncService sync.Servicer, server config.Server, log *slog.Logger) *Handlers {
	if server.APIToken == "" {
		log.Warn("API_TOKEN is empty, sync endpoints are not protected")
	}

	authMW := auth.New(server.APIToken, log)
	loggerMW := logger.New(log)

	healthHandler := healthAPI.NewHandler(storage, log, huma.Middlewares{loggerMW.Middleware()})
	syncHandler := syncAPI.NewHandler(syncService, log, huma.Middlewares{
		loggerMW.Middleware(),
		authMW.Middleware(),
	})

	return &Handlers{
		Health: healthHandler,
		Sync:   syncHandler,
	}
}
