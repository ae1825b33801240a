package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) planOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-plan",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/plan",
		Summary:     "План синхронизации",
		Description: "Строит план по товарам без legacy_item_id без обращений к каталогу",
		Tags:        []string{"sync"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) runOp() huma.Operation {
	return huma.Operation{
		OperationID:   "sync-run",
		Method:        http.MethodPost,
		Path:          "/api/v1/sync/runs",
		Summary:       "Запустить синхронизацию",
		Description:   "Выполняет прогон и возвращает итоги. 409, если прогон уже идет",
		Tags:          []string{"sync"},
		Security:      bearer,
		DefaultStatus: http.StatusOK,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) listRunsOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-list-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/runs",
		Summary:     "История прогонов",
		Description: "Последние прогоны, новые первыми",
		Tags:        []string{"sync"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
