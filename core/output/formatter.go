// Package output provides output formatting for quotes.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"blind-configurator/core/determinism"
	"blind-configurator/core/engine"
	"blind-configurator/core/ui"
	"blind-configurator/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given quote
	Render(w io.Writer, quote *engine.Quote) error
}

// Options tune the human-readable formatters
type Options struct {
	// ShowDetails adds the formula column
	ShowDetails bool

	// NoColor disables ANSI colours
	NoColor bool
}

// Registry maps formats to formatters
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry holding every built-in formatter
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&CLIFormatter{opts: opts})
	r.Register(&JSONFormatter{})
	r.Register(&MarkdownFormatter{opts: opts})
	return r
}

// Register adds a formatter, replacing any for the same format
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format name
func (r *Registry) Get(name string) (Formatter, error) {
	f, ok := r.formatters[Format(strings.ToLower(name))]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "unknown output format %q", name).
			WithContext("available", r.Formats())
	}
	return f, nil
}

// Formats lists the registered format names
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// JSONFormatter renders the quote as indented JSON
type JSONFormatter struct{}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the quote
func (f *JSONFormatter) Render(w io.Writer, quote *engine.Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(quote)
}

// CLIFormatter renders the quote for a terminal
type CLIFormatter struct {
	opts Options
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes the price box, the line items and the step checklist
func (f *CLIFormatter) Render(w io.Writer, quote *engine.Quote) error {
	uw := ui.NewWriter(w, f.opts.NoColor)
	cur := quote.Breakdown.Currency
	cfg := quote.Configuration

	summary := uw.NewQuoteSummary()
	summary.Window = strings.TrimSpace(cfg.WindowName)
	summary.Size = fmt.Sprintf("%dmm x %dmm", cfg.Width, cfg.Height)
	summary.Total = determinism.NewMoneyFromDecimal(quote.Breakdown.Total, cur).Display()
	summary.SKU = quote.SKU
	summary.Ready = quote.Ready
	summary.Problems = quote.Problems
	summary.Render()

	uw.Println("")
	uw.SubHeader("Line items")
	headers := []string{"Item", "Qty", "Amount"}
	if f.opts.ShowDetails {
		headers = append(headers, "Formula")
	}
	tbl := uw.NewTable(headers...)
	for _, item := range quote.LineItems {
		cells := []string{
			item.Label,
			fmt.Sprintf("%d", item.Quantity),
			determinism.NewMoneyFromDecimal(item.Amount, cur).Display(),
		}
		if f.opts.ShowDetails {
			cells = append(cells, item.Formula)
		}
		tbl.AddRow(cells...)
	}
	tbl.Render()

	uw.Println("")
	uw.SubHeader("Steps")
	for _, s := range quote.Steps {
		if s.Valid {
			uw.Success("%s", s.Title)
		} else {
			uw.Error("%s", s.Title)
		}
	}
	return nil
}

// MarkdownFormatter renders the quote as a markdown report
type MarkdownFormatter struct {
	opts Options
}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render writes the report
func (f *MarkdownFormatter) Render(w io.Writer, quote *engine.Quote) error {
	cur := quote.Breakdown.Currency
	cfg := quote.Configuration
	var b strings.Builder

	title := strings.TrimSpace(cfg.WindowName)
	if title == "" {
		title = "Custom Roller Blind"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "**Total:** %s  \n", determinism.NewMoneyFromDecimal(quote.Breakdown.Total, cur).String())
	fmt.Fprintf(&b, "**Size:** %dmm x %dmm  \n", cfg.Width, cfg.Height)
	fmt.Fprintf(&b, "**SKU:** `%s`\n\n", quote.SKU)

	if f.opts.ShowDetails {
		b.WriteString("| Item | Qty | Amount | Formula |\n|---|---:|---:|---|\n")
	} else {
		b.WriteString("| Item | Qty | Amount |\n|---|---:|---:|\n")
	}
	for _, item := range quote.LineItems {
		amount := determinism.NewMoneyFromDecimal(item.Amount, cur).Display()
		if f.opts.ShowDetails {
			fmt.Fprintf(&b, "| %s | %d | %s | `%s` |\n", item.Label, item.Quantity, amount, item.Formula)
		} else {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", item.Label, item.Quantity, amount)
		}
	}

	b.WriteString("\n### Steps\n\n")
	for _, s := range quote.Steps {
		mark := " "
		if s.Valid {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, s.Title)
	}

	if len(quote.Problems) > 0 {
		b.WriteString("\n### Not ready to submit\n\n")
		for _, p := range quote.Problems {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	if f.opts.ShowDetails && quote.Metadata.PricingVersion != "" {
		fmt.Fprintf(&b, "\n_Priced with table %s at %s_\n", quote.Metadata.PricingVersion, quote.Metadata.Timestamp)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
