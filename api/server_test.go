package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blind-configurator/adapters/cart"
	"blind-configurator/internal/errors"
)

type failingCart struct{}

func (failingCart) Submit(context.Context, *cart.Order) (*cart.Result, error) {
	return nil, errors.Network("storefront unavailable", nil)
}

// slowCart holds each submission until released
type slowCart struct {
	entered chan struct{}
	release chan struct{}
	calls   chan struct{}
}

func newSlowCart() *slowCart {
	return &slowCart{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
		calls:   make(chan struct{}, 4),
	}
}

func (c *slowCart) Submit(ctx context.Context, order *cart.Order) (*cart.Result, error) {
	c.calls <- struct{}{}
	c.entered <- struct{}{}
	<-c.release
	return &cart.Result{Strategy: cart.StrategyLineItem, DryRun: true, Key: order.Fingerprint}, nil
}

// flakyCart fails the first submission and accepts the rest
type flakyCart struct {
	calls int
}

func (c *flakyCart) Submit(ctx context.Context, order *cart.Order) (*cart.Result, error) {
	c.calls++
	if c.calls == 1 {
		return nil, errors.Network("storefront unavailable", nil)
	}
	return &cart.Result{Strategy: cart.StrategyLineItem, DryRun: true, Key: order.Fingerprint}, nil
}

func newTestServer(t *testing.T, submitter cart.Submitter) (*Server, *cart.Adapter) {
	t.Helper()
	dry := cart.New(nil, nil)
	if submitter == nil {
		submitter = dry
	}
	return NewServer(Options{Version: "test", Cart: submitter}), dry
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	envelope, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "missing error envelope: %s", rec.Body.String())
	return envelope["code"].(string)
}

var readyConfiguration = map[string]interface{}{
	"frame_color":           "black",
	"fabric_type":           "duo-blockout",
	"fabric_color":          "duo-aztec",
	"mount_type":            "inside",
	"width":                 map[string]int{"cm": 130, "mm": 0},
	"height":                "1200",
	"measurement_guarantee": true,
	"smart_hub_quantity":    2,
	"window_name":           "Kitchen",
}

func TestHealthAndVersion(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = do(t, s, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", decodeBody(t, rec)["api_version"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "7b0c4f7e-5d1a-4a38-9a51-1f7d7f0b2a11")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "7b0c4f7e-5d1a-4a38-9a51-1f7d7f0b2a11", rec.Header().Get(RequestIDHeader))
}

func TestQuote(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/quote", readyConfiguration)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	breakdown := body["breakdown"].(map[string]interface{})
	assert.Equal(t, "665", breakdown["base_price"])
	assert.Equal(t, "1262", breakdown["total"])
	assert.Equal(t, true, body["ready"])

	cfg := body["configuration"].(map[string]interface{})
	assert.EqualValues(t, 1300, cfg["width"])
	assert.EqualValues(t, 1200, cfg["height"])
	assert.Equal(t, "motorised", cfg["control_type"])
}

func TestQuoteRejectsMalformedJSON(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/quote", `{"width":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, rec))
}

func TestQuoteRejectsOversizedBody(t *testing.T) {
	s := NewServer(Options{MaxBodyBytes: 64})
	rec := do(t, s, http.MethodPost, "/v1/quote", map[string]string{
		"window_name": strings.Repeat("x", 200),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(t, rec))
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer(Options{AllowedOrigins: []string{"https://shop.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/quote", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNormalize(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/normalize", map[string]interface{}{
		"width":  map[string]int{"cm": 90, "mm": 5},
		"height": "abc",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 905, body["width_mm"])
	assert.EqualValues(t, 0, body["height_mm"])
}

func TestStepsAndValidate(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/steps", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	steps := decodeBody(t, rec)["steps"].([]interface{})
	assert.Len(t, steps, 7)

	rec = do(t, s, http.MethodPost, "/v1/steps/measurements/validate", map[string]interface{}{
		"width": 900, "height": 1200,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["valid"])

	rec = do(t, s, http.MethodPost, "/v1/steps/measurements/validate", map[string]interface{}{
		"width": 500, "height": 1200,
	})
	assert.Equal(t, false, decodeBody(t, rec)["valid"])

	rec = do(t, s, http.MethodPost, "/v1/steps/teleport/validate", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["valid"])
}

func TestCatalogAndTable(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["frame_colors"], 4)

	rec = do(t, s, http.MethodGet, "/v1/pricing/table", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	table := decodeBody(t, rec)["table"].(map[string]interface{})
	assert.Len(t, table["width_brackets"], 8)
	assert.Len(t, table["height_brackets"], 12)
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["id"].(string)
}

func TestSessionWalkthroughAndSubmit(t *testing.T) {
	s, dry := newTestServer(t, nil)
	id := createSession(t, s)
	base := "/v1/sessions/" + id

	rec := do(t, s, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["moved"])
	assert.Equal(t, "colour", body["current_step"])

	rec = do(t, s, http.MethodPatch, base, readyConfiguration)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for i := 0; i < 6; i++ {
		rec = do(t, s, http.MethodPost, base+"/next", nil)
		require.Equal(t, true, decodeBody(t, rec)["moved"], "step %d", i)
	}
	body = decodeBody(t, rec)
	assert.Equal(t, "name", body["current_step"])
	assert.Equal(t, "submit", body["action"])

	rec = do(t, s, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.Len(t, body["fingerprint"], 64)
	assert.Equal(t, true, body["cart"].(map[string]interface{})["dry_run"])
	require.Len(t, dry.Recorded(), 1)
	assert.Len(t, dry.Recorded()[0].Items, 2)

	rec = do(t, s, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFabricTypeResetsColour(t *testing.T) {
	s, _ := newTestServer(t, nil)
	base := "/v1/sessions/" + createSession(t, s)

	do(t, s, http.MethodPatch, base, map[string]string{"fabric_type": "duo-blockout", "fabric_color": "duo-linen"})
	rec := do(t, s, http.MethodPatch, base, map[string]string{"fabric_type": "lereve-blockout"})
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decodeBody(t, rec)["configuration"].(map[string]interface{})
	assert.Equal(t, "", cfg["fabric_color"])
}

func TestSessionSmartHubs(t *testing.T) {
	s, _ := newTestServer(t, nil)
	base := "/v1/sessions/" + createSession(t, s)

	rec := do(t, s, http.MethodPost, base+"/smart-hubs/decrement", nil)
	cfg := decodeBody(t, rec)["configuration"].(map[string]interface{})
	assert.EqualValues(t, 0, cfg["smart_hub_quantity"])

	do(t, s, http.MethodPost, base+"/smart-hubs/increment", nil)
	rec = do(t, s, http.MethodPost, base+"/smart-hubs/increment", nil)
	body := decodeBody(t, rec)
	cfg = body["configuration"].(map[string]interface{})
	assert.EqualValues(t, 2, cfg["smart_hub_quantity"])
	assert.Equal(t, "258", body["breakdown"].(map[string]interface{})["smart_hub"])
}

func TestSessionPreviousAndDelete(t *testing.T) {
	s, _ := newTestServer(t, nil)
	base := "/v1/sessions/" + createSession(t, s)

	rec := do(t, s, http.MethodPost, base+"/previous", nil)
	assert.Equal(t, false, decodeBody(t, rec)["moved"])

	rec = do(t, s, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestSubmitIncompleteConfiguration(t *testing.T) {
	s, dry := newTestServer(t, nil)
	base := "/v1/sessions/" + createSession(t, s)

	do(t, s, http.MethodPatch, base, readyConfiguration)
	for i := 0; i < 6; i++ {
		do(t, s, http.MethodPost, base+"/next", nil)
	}

	// switching fabric clears the colour while the wizard stays on the last step
	rec := do(t, s, http.MethodPatch, base, map[string]string{"fabric_type": "lereve-blockout"})
	require.Equal(t, "name", decodeBody(t, rec)["current_step"])

	rec = do(t, s, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	assert.Empty(t, dry.Recorded())
}

func TestSubmitUpstreamFailureKeepsSession(t *testing.T) {
	s, _ := newTestServer(t, failingCart{})
	base := "/v1/sessions/" + createSession(t, s)

	do(t, s, http.MethodPatch, base, readyConfiguration)
	for i := 0; i < 6; i++ {
		do(t, s, http.MethodPost, base+"/next", nil)
	}

	rec := do(t, s, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_ERROR", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func readySession(t *testing.T, s *Server) string {
	t.Helper()
	base := "/v1/sessions/" + createSession(t, s)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPatch, base, readyConfiguration).Code)
	for i := 0; i < 6; i++ {
		do(t, s, http.MethodPost, base+"/next", nil)
	}
	return base
}

func TestSubmitTwiceWhileInFlight(t *testing.T) {
	slow := newSlowCart()
	s, _ := newTestServer(t, slow)
	base := readySession(t, s)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- do(t, s, http.MethodPost, base+"/submit", nil)
	}()
	<-slow.entered

	rec := do(t, s, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))

	close(slow.release)
	rec = <-first
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, slow.calls, 1)

	rec = do(t, s, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitRetryAfterUpstreamFailure(t *testing.T) {
	flaky := &flakyCart{}
	s, _ := newTestServer(t, flaky)
	base := readySession(t, s)

	rec := do(t, s, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(t, s, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, flaky.calls)
}

func TestUnknownSession(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/v1/sessions/01HZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
