package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skusync/internal/domain/catalog"
)

// tokenSequence выдает tok-1, tok-2, ... на каждый обмен
func tokenSequence(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":3600}`, n)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32, *atomic.Int32) {
	t.Helper()
	auth, authCalls := tokenSequence(t)

	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(api.Close)

	cfg := inventoryConfig(auth.URL, api.URL)
	tokens := NewTokenProvider(cfg, auth.Client(), testLogger())
	return NewClient(cfg, tokens, api.Client(), testLogger()), authCalls, &apiCalls
}

func TestClient_FindBySKU_Found(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "org-1", r.URL.Query().Get("organization_id"))
		assert.Equal(t, "FA00", r.URL.Query().Get("sku"))
		assert.Equal(t, "Zoho-oauthtoken tok-1", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"code":0,"message":"success","items":[
			{"item_id":"RX1","name":"Widget","sku":"FA00","purchase_rate":12.5,"rate":"19.90","stock_on_hand":"","status":"active"},
			{"item_id":"RX2","name":"Widget copy","sku":"FA00"}
		]}`))
	})

	found, err := client.FindBySKU(context.Background(), "FA00")
	require.NoError(t, err)
	assert.Equal(t, "RX1", found.ItemID)
	assert.Equal(t, "Widget", found.Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(found.PurchaseRate))
	assert.True(t, decimal.RequireFromString("19.90").Equal(found.Rate))
	assert.True(t, found.StockOnHand.IsZero())
	assert.Equal(t, "active", found.Status)
}

func TestClient_FindBySKU_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty items",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"code":0,"message":"success","items":[]}`))
			},
		},
		{
			name: "items without item_id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"code":0,"message":"success","items":[{"sku":"ABC1"},{"item_id":"  ","sku":"ABC1"}]}`))
			},
		},
		{
			name: "404",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"code":1003,"message":"not found"}`, http.StatusNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, tt.handler)
			_, err := client.FindBySKU(context.Background(), "ABC1")
			assert.ErrorIs(t, err, catalog.ErrNotFound)
		})
	}
}

func TestClient_FindBySKU_SkipsItemsWithoutID(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"sku":"FA00","name":"Draft"},{"item_id":"RX2","sku":"FA00","name":"Widget"}]}`))
	})

	found, err := client.FindBySKU(context.Background(), "FA00")
	require.NoError(t, err)
	assert.Equal(t, "RX2", found.ItemID)
	assert.Equal(t, "Widget", found.Name)
}

func TestClient_FindBySKU_RetriesOnceAfter401(t *testing.T) {
	client, authCalls, apiCalls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Zoho-oauthtoken tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Zoho-oauthtoken tok-2", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[{"item_id":"RX1","sku":"FA00"}]}`))
	})

	found, err := client.FindBySKU(context.Background(), "FA00")
	require.NoError(t, err)
	assert.Equal(t, "RX1", found.ItemID)
	assert.Equal(t, int32(2), authCalls.Load())
	assert.Equal(t, int32(2), apiCalls.Load())
}

func TestClient_FindBySKU_SecondUnauthorized(t *testing.T) {
	client, authCalls, apiCalls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})

	_, err := client.FindBySKU(context.Background(), "FA00")
	require.Error(t, err)

	var authErr *catalog.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, int32(2), authCalls.Load())
	assert.Equal(t, int32(2), apiCalls.Load())
}

func TestClient_FindBySKU_APIError(t *testing.T) {
	client, _, apiCalls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.FindBySKU(context.Background(), "FA00")

	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", apiErr.Body)
	assert.Equal(t, int32(1), apiCalls.Load())
}

func TestClient_FindBySKU_TokenFailure(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_client", http.StatusBadRequest)
	}))
	defer auth.Close()

	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apiCalls.Add(1)
	}))
	defer api.Close()

	cfg := inventoryConfig(auth.URL, api.URL)
	client := NewClient(cfg, NewTokenProvider(cfg, nil, testLogger()), nil, testLogger())

	_, err := client.FindBySKU(context.Background(), "FA00")
	assert.True(t, catalog.IsAuthError(err))
	assert.Equal(t, int32(0), apiCalls.Load())
}

func TestClient_FindBySKU_CustomScheme(t *testing.T) {
	auth, _ := tokenSequence(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[{"item_id":"RX1","sku":"FA00"}]}`))
	}))
	defer api.Close()

	cfg := inventoryConfig(auth.URL, api.URL+"/")
	cfg.AuthScheme = "Bearer"
	client := NewClient(cfg, NewTokenProvider(cfg, nil, testLogger()), nil, testLogger())

	found, err := client.FindBySKU(context.Background(), "FA00")
	require.NoError(t, err)
	assert.Equal(t, "RX1", found.ItemID)
}
