package sync

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"skusync/internal/domain/catalog"
	"skusync/internal/domain/sync"
)

type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "sync_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.planOp(), h.plan)
	huma.Register(api, h.runOp(), h.run)
	huma.Register(api, h.listRunsOp(), h.listRuns)
}

func (h *Handler) plan(ctx context.Context, _ *planInput) (*planOutput, error) {
	plan, err := h.service.Preview(ctx)
	if err != nil {
		h.log.Error("preview failed", "error", err)
		return nil, huma.Error500InternalServerError("failed to build plan")
	}

	return &planOutput{Body: toPlanResponse(plan)}, nil
}

// run прогон привязан к контексту запроса: разрыв соединения отменяет его после текущего товара
func (h *Handler) run(ctx context.Context, input *runInput) (*runOutput, error) {
	summary, err := h.service.Run(ctx, sync.RunOptions{DryRun: input.DryRun})
	switch {
	case errors.Is(err, sync.ErrSyncInProgress):
		return nil, huma.Error409Conflict(err.Error())
	case catalog.IsAuthError(err):
		h.log.Error("sync aborted", "error", err)
		return nil, huma.Error502BadGateway("inventory authentication failed")
	case err != nil:
		h.log.Error("sync aborted", "error", err)
		return nil, huma.Error500InternalServerError("sync aborted")
	}

	return &runOutput{Body: toRunResponse(summary)}, nil
}

func (h *Handler) listRuns(ctx context.Context, input *listRunsInput) (*listRunsOutput, error) {
	runs, err := h.service.Runs(ctx, input.Limit)
	if err != nil {
		h.log.Error("list runs failed", "error", err)
		return nil, huma.Error500InternalServerError("failed to list runs")
	}

	resp := ListRunsResponse{Runs: make([]RunResponse, 0, len(runs))}
	for i := range runs {
		run := toRunResponse(&runs[i])
		// построчные результаты только в ответе на запуск
		run.Results = nil
		resp.Runs = append(resp.Runs, run)
	}
	return &listRunsOutput{Body: resp}, nil
}
