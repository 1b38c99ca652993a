package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"blind-configurator/core/engine"
	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

func sampleQuote() *engine.Quote {
	cfg := types.NewConfiguration()
	cfg.FrameColor = "white"
	cfg.FabricType = "lereve-blockout"
	cfg.FabricColor = "lereve-linen"
	cfg.MountType = "outside"
	cfg.Width = 1300
	cfg.Height = 1200
	cfg.MeasurementGuarantee = true
	cfg.SmartHubQuantity = 2
	cfg.WindowName = "Study"

	e := engine.New(engine.Deps{}, engine.Config{
		Now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	return e.Quote(cfg)
}

// TestRegistryResolvesFormats proves lookup is case-insensitive and rejects unknowns
func TestRegistryResolvesFormats(t *testing.T) {
	r := NewRegistry(Options{})
	if got := r.Formats(); strings.Join(got, ",") != "cli,json,markdown" {
		t.Errorf("formats = %v", got)
	}
	if f, err := r.Get("JSON"); err != nil || f.Format() != FormatJSON {
		t.Errorf("Get(JSON) = %v, %v", f, err)
	}
	if _, err := r.Get("html"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("Get(html) error = %v, want input error", err)
	}
}

// TestJSONFormatter proves the machine output decodes back to the same totals
func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Render(&buf, sampleQuote()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded struct {
		Breakdown struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"breakdown"`
		Ready bool `json:"ready"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if decoded.Breakdown.Total != "1262" || decoded.Breakdown.Currency != "AUD" || !decoded.Ready {
		t.Errorf("decoded = %+v", decoded)
	}
}

// TestCLIFormatter proves the terminal view shows the total and line items
func TestCLIFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &CLIFormatter{opts: Options{NoColor: true, ShowDetails: true}}
	if err := f.Render(&buf, sampleQuote()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Study", "$1262", "SmartHub x 2", "$258", "table[height", "Ready to add to cart"} {
		if !strings.Contains(out, want) {
			t.Errorf("cli output missing %q:\n%s", want, out)
		}
	}
}

// TestMarkdownFormatter proves the report lists steps and totals
func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &MarkdownFormatter{}
	if err := f.Render(&buf, sampleQuote()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"## Study", "**Total:** 1262.00 AUD", "- [x] Name your window", "| Measurement Guarantee | 1 | $40 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Not ready") {
		t.Error("ready quote reported as not ready")
	}
}
