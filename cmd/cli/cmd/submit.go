// Package cmd - submit command
package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blind-configurator/adapters/cart"
	"blind-configurator/core/determinism"
	"blind-configurator/internal/app"
	"blind-configurator/internal/logging"
)

var (
	submitFlags  configurationFlags
	submitDryRun bool
)

// submitCmd hands a finished configuration to the storefront cart
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Add a finished configuration to the cart",
	Long: `Validate a configuration and add it to the storefront cart using the
configured strategy. Without a storefront URL, or with --dry-run, the cart
items are printed instead of sent.`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	submitFlags.register(submitCmd)
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "build the cart items without calling the storefront")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	eng, err := app.NewEngine(cfg, Version)
	if err != nil {
		return err
	}
	blind, err := submitFlags.build(cmd)
	if err != nil {
		return err
	}
	if err := eng.CheckSubmittable(blind); err != nil {
		return err
	}

	if submitDryRun {
		copied := *cfg
		copied.Cart.StorefrontURL = ""
		cfg = &copied
	}
	adapter := app.NewCart(cfg, logging.Named("cart"))

	quote := eng.Quote(blind)
	w := newWriter(cmd, cfg)
	spinner := w.NewSpinner("Adding to cart")
	spinner.Start()
	result, err := adapter.Submit(cmd.Context(), &cart.Order{
		Configuration: quote.Configuration,
		Breakdown:     quote.Breakdown,
		Fingerprint:   quote.Fingerprint,
		SKU:           quote.SKU,
		Properties:    eng.Describe(quote.Configuration),
	})
	spinner.Stop(err == nil)
	if err != nil {
		logging.Error("cart submission failed", zap.String("fingerprint", quote.Fingerprint), zap.Error(err))
		return err
	}

	total := determinism.NewMoneyFromDecimal(quote.Breakdown.Total, quote.Breakdown.Currency).Display()
	if result.DryRun {
		w.Warning("Dry run: nothing was sent to the storefront")
	} else {
		w.Success("Added %s to cart", total)
	}
	w.Info("Strategy: %s", result.Strategy)
	w.Info("SKU: %s", quote.SKU)
	w.Debug("Idempotency key: %s", result.Key)

	tbl := w.NewTable("Variant", "Qty", "Properties")
	for _, item := range result.Items {
		tbl.AddRow(strconv.FormatInt(item.ID, 10), strconv.Itoa(item.Quantity), strconv.Itoa(len(item.Properties)))
	}
	tbl.Render()
	return nil
}
