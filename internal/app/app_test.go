package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"skusync/internal/config"
	"skusync/internal/domain/compare"
	"skusync/internal/domain/item"
	"skusync/internal/domain/sync"
)

// inventoryServer отдает токен и позиции каталога по точному артикулу
func inventoryServer(t *testing.T, catalog map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-oauthtoken tok", r.Header.Get("Authorization"))

		sku := r.URL.Query().Get("sku")
		items := []map[string]any{}
		if id, ok := catalog[sku]; ok {
			items = append(items, map[string]any{
				"item_id": id,
				"sku":     sku,
				"name":    "Item " + sku,
				"rate":    10.5,
				"status":  "active",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "message": "success", "items": items})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, srvURL string) *config.Config {
	return &config.Config{
		Env: config.EnvLocal,
		DB: config.DB{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "app.db"),
		},
		Inventory: config.Inventory{
			AuthURL:      srvURL + "/oauth",
			APIURL:       srvURL + "/api",
			ClientID:     "client",
			ClientSecret: "secret",
			RefreshToken: "refresh",
			OrgID:        "org",
			Timeout:      5 * time.Second,
			TokenMargin:  time.Minute,
		},
		Sync: config.Sync{BatchSize: 10},
	}
}

func TestApp_SyncEndToEnd(t *testing.T) {
	srv := inventoryServer(t, map[string]string{
		"FA00": "RX1",
		"AB12": "RX9",
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, srv.URL), log)
	require.NoError(t, err)
	defer a.Close()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = a.Items().Import(ctx, []item.Item{
		{ID: "1", SKU: "FA00", Name: "base", CreatedAt: base.Add(time.Hour)},
		{ID: "2", SKU: "FA00F", Name: "variant", CreatedAt: base},
		{ID: "3", SKU: "AB12C", Name: "variant c", CreatedAt: base},
		{ID: "4", SKU: "AB12D", Name: "variant d", CreatedAt: base.Add(time.Minute)},
		{ID: "5", SKU: "ZZ9", Name: "missing", CreatedAt: base},
	})
	require.NoError(t, err)

	plan, err := a.Sync.Preview(ctx)
	require.NoError(t, err)
	assert.Len(t, plan.Items, 3)

	summary, err := a.Sync.Run(ctx, sync.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, sync.StateDone, summary.State)
	assert.Equal(t, 3, summary.Planned)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.NotFound)

	owner, err := a.Items().FindByLegacyID(ctx, "RX1")
	require.NoError(t, err)
	assert.Equal(t, "1", owner.ID)

	owner, err = a.Items().FindByLegacyID(ctx, "RX9")
	require.NoError(t, err)
	assert.Equal(t, "3", owner.ID, "earliest variant wins when no exact base exists")

	runs, err := a.Sync.Runs(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, summary.ID, runs[0].ID)
}

func TestApp_CompareEndToEnd(t *testing.T) {
	srv := inventoryServer(t, map[string]string{"FA00": "RX1"})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, srv.URL), log)
	require.NoError(t, err)
	defer a.Close()

	rows, err := compare.ReadRows(bytes.NewBufferString("sku,name,cost_price\nFA00,item fa00,10.50\nZZ1,missing,3\n"))
	require.NoError(t, err)

	report, err := a.Compare.Run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 1, report.PriceMatches)
	assert.Equal(t, 1, report.NameMatches)
	assert.Equal(t, 1, report.NotFound())
}
