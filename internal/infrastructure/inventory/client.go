package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/exp/slog"

	"skusync/internal/config"
	"skusync/internal/domain/catalog"
)

// TokenSource источник токенов для Client
type TokenSource interface {
	Token(ctx context.Context) (catalog.Credential, error)
	Invalidate()
}

// Client доступ к каталогу удаленного сервиса только на чтение
type Client struct {
	client  *http.Client
	tokens  TokenSource
	baseURL string
	orgID   string
	scheme  string
	log     *slog.Logger
}

func NewClient(cfg config.Inventory, tokens TokenSource, client *http.Client, log *slog.Logger) *Client {
	if client == nil {
		client = newHTTPClient(cfg.Timeout)
	}

	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = "Zoho-oauthtoken"
	}

	return &Client{
		client:  client,
		tokens:  tokens,
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		orgID:   cfg.OrgID,
		scheme:  scheme,
		log:     log.With("component", "inventory_client"),
	}
}

// FindBySKU возвращает первую позицию с данным артикулом или catalog.ErrNotFound.
// На 401 токен сбрасывается и запрос повторяется ровно один раз.
func (c *Client) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	status, body, err := c.lookup(ctx, cred, sku)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.log.Warn("token rejected, refreshing", "sku", sku)
		c.tokens.Invalidate()

		cred, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		status, body, err = c.lookup(ctx, cred, sku)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, &catalog.AuthError{
				StatusCode: status,
				Message:    "токен отклонен повторно: " + strings.TrimSpace(string(body)),
			}
		}
	}

	switch {
	case status == http.StatusNotFound:
		return nil, catalog.ErrNotFound
	case status < 200 || status >= 300:
		return nil, &catalog.APIError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	}

	var resp itemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	// позиции без item_id привязать нельзя
	usable := resp.Items[:0]
	for _, it := range resp.Items {
		if strings.TrimSpace(it.ItemID) != "" {
			usable = append(usable, it)
		}
	}
	if skipped := len(resp.Items) - len(usable); skipped > 0 {
		c.log.Warn("catalog items without item_id skipped", "sku", sku, "skipped", skipped)
	}
	if len(usable) == 0 {
		return nil, catalog.ErrNotFound
	}
	if len(usable) > 1 {
		c.log.Debug("several catalog items share sku, using first", "sku", sku, "count", len(usable))
	}

	return usable[0].toDomain(), nil
}

func (c *Client) lookup(ctx context.Context, cred catalog.Credential, sku string) (int, []byte, error) {
	query := url.Values{}
	query.Set("organization_id", c.orgID)
	query.Set("sku", sku)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/items?"+query.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", c.scheme+" "+cred.Token)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("Отправка запроса", "method", req.Method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	c.log.Debug("Получен ответ", "status", resp.StatusCode, "body", string(body))

	return resp.StatusCode, body, nil
}
