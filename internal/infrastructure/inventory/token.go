package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"skusync/internal/config"
	"skusync/internal/domain/catalog"
)

// defaultLifetime используется, если сервер авторизации не вернул expires_in
const defaultLifetime = time.Hour

// TokenProvider выдает токен доступа и обновляет его по refresh token.
// Кэш принадлежит только провайдеру, параллельные вызовы выполняют не более одного обмена.
type TokenProvider struct {
	client       *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	refreshToken string
	margin       time.Duration
	log          *slog.Logger

	mu   gosync.Mutex
	cred catalog.Credential
	now  func() time.Time
}

func NewTokenProvider(cfg config.Inventory, client *http.Client, log *slog.Logger) *TokenProvider {
	if client == nil {
		client = newHTTPClient(cfg.Timeout)
	}

	return &TokenProvider{
		client:       client,
		tokenURL:     strings.TrimRight(cfg.AuthURL, "/") + "/token",
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		refreshToken: cfg.RefreshToken,
		margin:       cfg.TokenMargin,
		log:          log.With("component", "token_provider"),
		now:          time.Now,
	}
}

// Token возвращает закэшированный токен, пока он действителен, иначе выполняет обмен refresh token
func (p *TokenProvider) Token(ctx context.Context) (catalog.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cred.ValidAt(p.now()) {
		return p.cred, nil
	}

	cred, err := p.refresh(ctx)
	if err != nil {
		return catalog.Credential{}, err
	}
	p.cred = cred
	return cred, nil
}

// Invalidate сбрасывает кэш, следующий Token выполнит обмен
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cred = catalog.Credential{}
}

func (p *TokenProvider) refresh(ctx context.Context) (catalog.Credential, error) {
	form := url.Values{}
	form.Set("refresh_token", p.refreshToken)
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return catalog.Credential{}, &catalog.AuthError{Message: "ошибка создания запроса", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p.log.Debug("Обновление токена", "url", p.tokenURL)

	issuedAt := p.now()
	resp, err := p.client.Do(req)
	if err != nil {
		return catalog.Credential{}, &catalog.AuthError{Message: "сервер авторизации недоступен", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.Credential{}, &catalog.AuthError{Message: "ошибка чтения ответа", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return catalog.Credential{}, &catalog.AuthError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return catalog.Credential{}, &catalog.AuthError{StatusCode: resp.StatusCode, Message: "ошибка парсинга ответа", Err: err}
	}
	if tr.AccessToken == "" {
		msg := "в ответе нет access_token"
		if tr.Error != "" {
			msg = fmt.Sprintf("%s: %s", msg, tr.Error)
		}
		return catalog.Credential{}, &catalog.AuthError{StatusCode: resp.StatusCode, Message: msg}
	}

	ttl := cacheWindow(time.Duration(tr.ExpiresIn)*time.Second, p.margin)
	p.log.Info("token refreshed", "expires_in", tr.ExpiresIn, "cached_for", ttl)

	return catalog.Credential{
		Token:     tr.AccessToken,
		ExpiresAt: issuedAt.Add(ttl),
	}, nil
}

// cacheWindow срок кэширования: заявленное время жизни минус запас,
// но не меньше половины времени жизни
func cacheWindow(lifetime, margin time.Duration) time.Duration {
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	ttl := lifetime - margin
	if ttl <= 0 {
		ttl = lifetime / 2
	}
	return ttl
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}
}
