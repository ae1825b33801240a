package logger

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestLogger_Middleware(t *testing.T) {
	var buf bytes.Buffer
	mw := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "boom",
		Method:      http.MethodGet,
		Path:        "/boom",
		Middlewares: huma.Middlewares{mw.Middleware()},
	}, func(_ context.Context, _ *struct{}) (*struct{}, error) {
		return nil, huma.Error500InternalServerError("boom")
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		buf.Reset()
		resp := api.Get("/boom", RequestIDHeader+": req-42")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "req-42", resp.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"request_id":"req-42"`)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"status":500`)
	})

	t.Run("generates request id", func(t *testing.T) {
		resp := api.Get("/boom")

		assert.Len(t, resp.Header().Get(RequestIDHeader), 36)
	})
}
