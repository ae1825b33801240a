package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const pingTimeout = 2 * time.Second

// Pinger проверка локального хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	storage    Pinger
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(storage Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		storage:    storage,
		log:        log.With("component", "health_handler"),
		middleware: middleware,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.checkOp(), h.check)
}

func (h *Handler) check(ctx context.Context, _ *checkInput) (*checkOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := Response{Status: "OK", Storage: "up", Time: h.now().UTC()}
	if err := h.storage.Ping(ctx); err != nil {
		h.log.Error("storage ping failed", "error", err)
		resp.Status = "DEGRADED"
		resp.Storage = "down"
		return nil, &unavailable{body: resp}
	}

	return &checkOutput{Body: resp}, nil
}

// unavailable 503 с телом обычного ответа
type unavailable struct {
	body Response
}

func (e *unavailable) Error() string {
	return "storage unavailable"
}

func (e *unavailable) GetStatus() int {
	return http.StatusServiceUnavailable
}

func (e *unavailable) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.body)
}
