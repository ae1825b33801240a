package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const bearerPrefix = "Bearer "

// Auth проверяет статический API_TOKEN в заголовке Authorization
type Auth struct {
	token []byte
	log   *slog.Logger
}

func New(token string, log *slog.Logger) *Auth {
	return &Auth{
		token: []byte(token),
		log:   log.With("component", "auth_middleware"),
	}
}

// Middleware при пустом токене пропускает все запросы
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(a.token) == 0 {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			a.log.Warn("missing bearer token", "path", ctx.URL().Path)
			a.unauthorized(ctx)
			return
		}

		if subtle.ConstantTimeCompare([]byte(header[len(bearerPrefix):]), a.token) != 1 {
			a.log.Warn("invalid bearer token", "path", ctx.URL().Path)
			a.unauthorized(ctx)
			return
		}

		next(ctx)
	}
}

func (a *Auth) unauthorized(ctx huma.Context) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetHeader("WWW-Authenticate", "Bearer")
	ctx.SetStatus(http.StatusUnauthorized)

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	}); err != nil {
		a.log.Error("encode response", "error", err)
	}
}
