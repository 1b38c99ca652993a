package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

func testOrder() *Order {
	cfg := types.NewConfiguration()
	cfg.FrameColor = "black"
	cfg.FabricType = "duo-blockout"
	cfg.FabricColor = "duo-aztec"
	cfg.MountType = "inside"
	cfg.Width = 1300
	cfg.Height = 1200
	cfg.AdditionalRemote = true
	cfg.SmartHubQuantity = 3
	cfg.WindowName = "Kitchen"
	return &Order{
		Configuration: cfg,
		Breakdown: types.PricingBreakdown{
			Total:    decimal.NewFromInt(1480),
			Currency: types.CurrencyAUD,
		},
		Fingerprint: "abc123",
		SKU:         "CUSTOM-BLIND-ABC123",
		Properties:  map[string]string{"Window": "Kitchen"},
	}
}

type recordedRequest struct {
	path  string
	key   string
	auth  string
	items []Item
	body  map[string]interface{}
}

type fakeShop struct {
	mu       sync.Mutex
	requests []recordedRequest
	failures int32
	status   int
}

func (s *fakeShop) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&s.failures, -1) >= 0 {
			w.WriteHeader(s.status)
			_, _ = w.Write([]byte(`{"description":"try later"}`))
			return
		}

		rec := recordedRequest{
			path: r.URL.Path,
			key:  r.Header.Get("Idempotency-Key"),
			auth: r.Header.Get("Authorization"),
		}
		switch r.URL.Path {
		case "/cart/add.js":
			var body struct {
				Items []Item `json:"items"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			rec.items = body.Items
			_, _ = w.Write([]byte(`{}`))
		case "/api/variants/create":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec.body))
			_, _ = w.Write([]byte(`{"variantId": 998877}`))
		default:
			http.NotFound(w, r)
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
	})
}

func newAdapter(strategy Strategy, url string) *Adapter {
	return New(&Config{
		Strategy:          strategy,
		StorefrontURL:     url,
		AppURL:            url,
		APIKey:            "secret",
		ProductID:         111,
		BaseVariantID:     222,
		RemoteVariantID:   333,
		SmartHubVariantID: 444,
		Timeout:           2 * time.Second,
		RetryCount:        2,
		RetryDelay:        time.Millisecond,
	}, nil)
}

func TestDryRunRecordsWithoutNetwork(t *testing.T) {
	a := New(nil, nil)
	res, err := a.Submit(context.Background(), testOrder())
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "1480.00", res.Items[0].Properties["_calculated_price"])
	assert.Equal(t, "abc123", res.Items[0].Properties["_config_hash"])
	assert.Equal(t, 1, res.Items[1].Quantity)
	assert.Equal(t, 3, res.Items[2].Quantity)
	assert.Len(t, a.Recorded(), 1)
}

func TestLineItemStrategy(t *testing.T) {
	shop := &fakeShop{}
	srv := httptest.NewServer(shop.handler(t))
	defer srv.Close()

	res, err := newAdapter(StrategyLineItem, srv.URL).Submit(context.Background(), testOrder())
	require.NoError(t, err)
	assert.False(t, res.DryRun)
	assert.EqualValues(t, 222, res.VariantID)

	require.Len(t, shop.requests, 3)
	blind := shop.requests[0]
	assert.Equal(t, "/cart/add.js", blind.path)
	assert.Equal(t, "abc123-0", blind.key)
	assert.Empty(t, blind.auth)
	require.Len(t, blind.items, 1)
	assert.EqualValues(t, 222, blind.items[0].ID)
	assert.Equal(t, "Kitchen", blind.items[0].Properties["Window"])

	assert.EqualValues(t, 333, shop.requests[1].items[0].ID)
	assert.EqualValues(t, 444, shop.requests[2].items[0].ID)
	assert.Equal(t, 3, shop.requests[2].items[0].Quantity)
}

func TestDynamicVariantStrategy(t *testing.T) {
	shop := &fakeShop{}
	srv := httptest.NewServer(shop.handler(t))
	defer srv.Close()

	res, err := newAdapter(StrategyDynamicVariant, srv.URL).Submit(context.Background(), testOrder())
	require.NoError(t, err)
	assert.EqualValues(t, 998877, res.VariantID)

	require.Len(t, shop.requests, 4)
	create := shop.requests[0]
	assert.Equal(t, "/api/variants/create", create.path)
	assert.Equal(t, "Bearer secret", create.auth)
	assert.Equal(t, "abc123", create.key)
	assert.Equal(t, "CUSTOM-BLIND-ABC123", create.body["sku"])
	assert.Equal(t, "1300mm x 1200mm - duo-aztec", create.body["title"])
	assert.Len(t, create.body["metafields"], 11)

	blind := shop.requests[1]
	assert.EqualValues(t, 998877, blind.items[0].ID)
	assert.Empty(t, blind.items[0].Properties)
}

func TestServerErrorsAreRetried(t *testing.T) {
	shop := &fakeShop{failures: 2, status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(shop.handler(t))
	defer srv.Close()

	_, err := newAdapter(StrategyLineItem, srv.URL).Submit(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Len(t, shop.requests, 3)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	shop := &fakeShop{failures: 1, status: http.StatusUnprocessableEntity}
	srv := httptest.NewServer(shop.handler(t))
	defer srv.Close()

	_, err := newAdapter(StrategyLineItem, srv.URL).Submit(context.Background(), testOrder())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNetwork))
	assert.Empty(t, shop.requests)
}

func TestExhaustedRetriesAreNetworkErrors(t *testing.T) {
	shop := &fakeShop{failures: 10, status: http.StatusBadGateway}
	srv := httptest.NewServer(shop.handler(t))
	defer srv.Close()

	_, err := newAdapter(StrategyDynamicVariant, srv.URL).Submit(context.Background(), testOrder())
	require.Error(t, err)
	assert.True(t, errors.Retryable(err))
	assert.Contains(t, err.Error(), "502")
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newAdapter(StrategyLineItem, srv.URL).Submit(ctx, testOrder())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNetwork))
}

func TestSubmitRequiresFingerprint(t *testing.T) {
	order := testOrder()
	order.Fingerprint = ""
	_, err := New(nil, nil).Submit(context.Background(), order)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestNewVariantRequest(t *testing.T) {
	req := NewVariantRequest(111, testOrder())
	assert.EqualValues(t, 111, req.ProductID)
	assert.True(t, req.Price.Equal(decimal.NewFromInt(1480)))
	assert.False(t, req.InventoryTracked)

	byKey := map[string]Metafield{}
	for _, m := range req.Metafields {
		byKey[m.Key] = m
	}
	assert.Equal(t, "1300", byKey["width_mm"].Value)
	assert.Equal(t, "boolean", byKey["measurement_guarantee"].Type)
	assert.Equal(t, "1480.00", byKey["calculated_price"].Value)
}
