// Package cart hands a finished configuration to the storefront cart.
// Two strategies are supported: a fixed base variant with line-item
// properties, or a per-configuration variant created through the shop app.
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

var tracer = otel.Tracer("blind-configurator/adapters/cart")

// Strategy selects how the blind reaches the cart
type Strategy string

const (
	// StrategyLineItem adds the fixed base variant and carries the price in properties
	StrategyLineItem Strategy = "line-item"

	// StrategyDynamicVariant creates a variant priced for this configuration
	StrategyDynamicVariant Strategy = "dynamic-variant"
)

const (
	idempotencyHeader = "Idempotency-Key"
	cartAddPath       = "/cart/add.js"
	variantCreatePath = "/api/variants/create"
)

// Config configures the cart adapter
type Config struct {
	// Strategy is line-item or dynamic-variant
	Strategy Strategy

	// StorefrontURL is the shop base URL; empty means dry-run
	StorefrontURL string

	// AppURL hosts the variant creation endpoint
	AppURL string

	// APIKey authorises variant creation
	APIKey string

	// ProductID owns created variants
	ProductID int64

	// BaseVariantID is the fixed line-item variant
	BaseVariantID int64

	// RemoteVariantID is the additional remote product
	RemoteVariantID int64

	// SmartHubVariantID is the smart hub product
	SmartHubVariantID int64

	// Timeout for each request
	Timeout time.Duration

	// RetryCount for failed requests
	RetryCount int

	// RetryDelay between retries
	RetryDelay time.Duration
}

// DefaultConfig returns sensible defaults for a dry-run adapter
func DefaultConfig() *Config {
	return &Config{
		Strategy:   StrategyLineItem,
		Timeout:    8 * time.Second,
		RetryCount: 2,
		RetryDelay: 500 * time.Millisecond,
	}
}

// DryRun reports whether no storefront is configured
func (c *Config) DryRun() bool {
	return strings.TrimSpace(c.StorefrontURL) == ""
}

// Order is everything the cart needs about one configuration
type Order struct {
	Configuration types.Configuration
	Breakdown     types.PricingBreakdown

	// Fingerprint is the configuration hash; it keys every request
	Fingerprint string

	// SKU is the generated variant SKU
	SKU string

	// Properties are human-readable configuration lines
	Properties map[string]string
}

// Item is one cart line
type Item struct {
	ID         int64             `json:"id"`
	Quantity   int               `json:"quantity"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Result describes a completed hand-off
type Result struct {
	Strategy  Strategy `json:"strategy"`
	VariantID int64    `json:"variant_id"`
	Items     []Item   `json:"items"`
	DryRun    bool     `json:"dry_run"`
	Key       string   `json:"idempotency_key"`
}

// Submitter hands orders to a cart
type Submitter interface {
	Submit(ctx context.Context, order *Order) (*Result, error)
}

// Adapter is the storefront cart adapter
type Adapter struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	mu       sync.Mutex
	recorded []Result
}

// New creates a cart adapter. A nil logger discards logs.
func New(config *Config, logger *zap.Logger) *Adapter {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Strategy == "" {
		config.Strategy = StrategyLineItem
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Recorded returns the hand-offs made so far in dry-run mode
func (a *Adapter) Recorded() []Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Result(nil), a.recorded...)
}

// Submit adds the blind and its accessories to the cart
func (a *Adapter) Submit(ctx context.Context, order *Order) (*Result, error) {
	if order == nil || order.Fingerprint == "" {
		return nil, errors.Input("order needs a configuration fingerprint")
	}

	ctx, span := tracer.Start(ctx, "cart.submit", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("cart.strategy", string(a.config.Strategy)),
		attribute.String("cart.fingerprint", order.Fingerprint),
		attribute.Bool("cart.dry_run", a.config.DryRun()),
	)

	result := &Result{
		Strategy: a.config.Strategy,
		DryRun:   a.config.DryRun(),
		Key:      order.Fingerprint,
	}

	blind, err := a.blindItem(ctx, order, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create variant")
		return nil, err
	}
	result.Items = append([]Item{blind}, a.accessoryItems(order.Configuration)...)

	if result.DryRun {
		a.mu.Lock()
		a.recorded = append(a.recorded, *result)
		a.mu.Unlock()
		a.logger.Info("cart dry-run",
			zap.String("fingerprint", order.Fingerprint),
			zap.Int("items", len(result.Items)))
		return result, nil
	}

	for i, item := range result.Items {
		key := fmt.Sprintf("%s-%d", order.Fingerprint, i)
		if err := a.withRetry(ctx, func() error { return a.addItem(ctx, item, key) }); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "add to cart")
			return nil, err
		}
	}

	a.logger.Info("added to cart",
		zap.String("strategy", string(result.Strategy)),
		zap.String("fingerprint", order.Fingerprint),
		zap.Int64("variant_id", result.VariantID),
		zap.Int("items", len(result.Items)))
	return result, nil
}

func (a *Adapter) blindItem(ctx context.Context, order *Order, result *Result) (Item, error) {
	if a.config.Strategy == StrategyDynamicVariant {
		variantID, err := a.createVariant(ctx, order, result.DryRun)
		if err != nil {
			return Item{}, err
		}
		result.VariantID = variantID
		return Item{ID: variantID, Quantity: 1}, nil
	}

	props := make(map[string]string, len(order.Properties)+2)
	for k, v := range order.Properties {
		props[k] = v
	}
	props["_calculated_price"] = order.Breakdown.Total.StringFixed(2)
	props["_config_hash"] = order.Fingerprint
	result.VariantID = a.config.BaseVariantID
	return Item{ID: a.config.BaseVariantID, Quantity: 1, Properties: props}, nil
}

func (a *Adapter) accessoryItems(cfg types.Configuration) []Item {
	var items []Item
	if cfg.AdditionalRemote {
		items = append(items, Item{ID: a.config.RemoteVariantID, Quantity: 1})
	}
	if cfg.SmartHubQuantity > 0 {
		items = append(items, Item{ID: a.config.SmartHubVariantID, Quantity: cfg.SmartHubQuantity})
	}
	return items
}

// Metafield is one configuration value stored on a created variant
type Metafield struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// VariantRequest is the body sent to the variant creation endpoint
type VariantRequest struct {
	ProductID        int64           `json:"productId"`
	Price            decimal.Decimal `json:"price"`
	SKU              string          `json:"sku"`
	Title            string          `json:"title"`
	Metafields       []Metafield     `json:"metafields"`
	InventoryTracked bool            `json:"inventoryTracked"`
}

// NewVariantRequest builds the variant body for an order
func NewVariantRequest(productID int64, order *Order) VariantRequest {
	cfg := order.Configuration
	text := func(key, value string) Metafield {
		return Metafield{Key: key, Value: value, Type: "single_line_text_field"}
	}
	return VariantRequest{
		ProductID: productID,
		Price:     order.Breakdown.Total,
		SKU:       order.SKU,
		Title:     fmt.Sprintf("%dmm x %dmm - %s", cfg.Width, cfg.Height, cfg.FabricColor),
		Metafields: []Metafield{
			text("fabric_type", cfg.FabricType),
			text("fabric_color", cfg.FabricColor),
			text("frame_color", cfg.FrameColor),
			text("mount_type", cfg.MountType),
			text("width_mm", fmt.Sprint(cfg.Width)),
			text("height_mm", fmt.Sprint(cfg.Height)),
			{Key: "measurement_guarantee", Value: fmt.Sprint(cfg.MeasurementGuarantee), Type: "boolean"},
			text("control_type", cfg.ControlType),
			text("window_name", strings.TrimSpace(cfg.WindowName)),
			{Key: "calculated_price", Value: order.Breakdown.Total.StringFixed(2), Type: "number_decimal"},
			text("config_hash", order.Fingerprint),
		},
	}
}

type variantResponse struct {
	VariantID json.Number `json:"variantId"`
}

func (a *Adapter) createVariant(ctx context.Context, order *Order, dryRun bool) (int64, error) {
	if dryRun {
		return 0, nil
	}

	ctx, span := tracer.Start(ctx, "cart.create_variant", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("cart.sku", order.SKU))

	body, err := json.Marshal(NewVariantRequest(a.config.ProductID, order))
	if err != nil {
		return 0, errors.Internal("failed to encode variant request", err)
	}

	var out variantResponse
	err = a.withRetry(ctx, func() error {
		return a.post(ctx, strings.TrimRight(a.config.AppURL, "/")+variantCreatePath, body, order.Fingerprint, true, &out)
	})
	if err != nil {
		return 0, err
	}

	id, err := out.VariantID.Int64()
	if err != nil || id <= 0 {
		return 0, errors.Newf(errors.TypeNetwork, "variant service returned no variant id").
			WithContext("sku", order.SKU)
	}
	span.SetAttributes(attribute.Int64("cart.variant_id", id))
	return id, nil
}

func (a *Adapter) addItem(ctx context.Context, item Item, key string) error {
	ctx, span := tracer.Start(ctx, "cart.add", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int64("cart.item_id", item.ID), attribute.Int("cart.quantity", item.Quantity))

	body, err := json.Marshal(map[string][]Item{"items": {item}})
	if err != nil {
		return errors.Internal("failed to encode cart item", err)
	}
	return a.post(ctx, strings.TrimRight(a.config.StorefrontURL, "/")+cartAddPath, body, key, false, nil)
}

func (a *Adapter) post(ctx context.Context, url string, body []byte, key string, auth bool, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Internal("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(idempotencyHeader, key)
	if auth {
		req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return errors.Network("request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &statusError{
			status: resp.StatusCode,
			err: errors.Newf(errors.TypeNetwork, "storefront returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))).
				WithContext("url", url).
				WithContext("status", resp.StatusCode),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Network("failed to decode response", err).WithContext("url", url)
	}
	return nil
}

// statusError marks HTTP error statuses so 4xx responses are not retried
type statusError struct {
	status int
	err    *errors.Error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func (a *Adapter) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= a.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Network("cart submission cancelled", ctx.Err())
			case <-time.After(a.config.RetryDelay):
			}
			a.logger.Warn("retrying storefront request", zap.Int("attempt", attempt), zap.Error(lastErr))
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var se *statusError
		if stderrors.As(lastErr, &se) && se.status < 500 {
			return se.err
		}
		if !errors.Retryable(lastErr) {
			return lastErr
		}
	}
	var se *statusError
	if stderrors.As(lastErr, &se) {
		return se.err
	}
	return lastErr
}
