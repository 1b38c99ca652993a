// Package cmd - quote command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blind-configurator/core/output"
	"blind-configurator/internal/app"
	"blind-configurator/internal/logging"
)

var (
	quoteFlags   configurationFlags
	outputFormat string
	showDetails  bool
)

// quoteCmd prices one configuration
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a blind configuration",
	Long: `Price a configuration against the storefront table.

The quote always succeeds; incomplete configurations are priced as far as
they go and list what is still missing.

Examples:
  blind-configurator quote --width 900 --height 1200
  blind-configurator quote --file kitchen.json --format json
  blind-configurator quote --width 130cm --height 1200 --hubs 2 --details`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	quoteFlags.register(quoteCmd)
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown)")
	quoteCmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show pricing formulas")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	eng, err := app.NewEngine(cfg, Version)
	if err != nil {
		return err
	}
	blind, err := quoteFlags.build(cmd)
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	details := cfg.Output.ShowDetails
	if cmd.Flags().Changed("details") {
		details = showDetails
	}
	formatters := output.NewRegistry(output.Options{
		ShowDetails: details,
		NoColor:     colorDisabled(cfg),
	})
	f, err := formatters.Get(format)
	if err != nil {
		return err
	}

	quote := eng.Quote(blind)
	logging.Debug("quote computed",
		zap.String("fingerprint", quote.Fingerprint),
		zap.String("total", quote.Breakdown.Total.String()),
		zap.Bool("ready", quote.Ready))
	return f.Render(cmd.OutOrStdout(), quote)
}
