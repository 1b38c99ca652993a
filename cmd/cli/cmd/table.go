// Package cmd - table command
package cmd

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"blind-configurator/core/determinism"
	"blind-configurator/internal/app"
)

var tableFormat string

// tableCmd prints the base price table and the surcharges
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show the base price table and surcharges",
	Long: `Show the bracket price table in use. Rows are height brackets and
columns are width brackets, both inclusive millimetres.`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&tableFormat, "format", "f", "cli", "output format (cli, json)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	eng, err := app.NewEngine(cfg, Version)
	if err != nil {
		return err
	}
	table := eng.Calculator().Table()
	policy := eng.Calculator().Policy()

	if tableFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"table":  table,
			"policy": policy,
		})
	}

	w := newWriter(cmd, cfg)
	w.Header("Base prices (" + string(table.Currency) + ")")
	w.Debug("Pricing version: %s", eng.Calculator().Snapshot().Version)

	headers := []string{"Height \\ Width"}
	for _, b := range table.WidthBrackets {
		headers = append(headers, b.String())
	}
	tbl := w.NewTable(headers...)
	for h, b := range table.HeightBrackets {
		row := []string{b.String()}
		for _, p := range table.Prices[h] {
			row = append(row, p.String())
		}
		tbl.AddRow(row...)
	}
	tbl.Render()

	money := func(d decimal.Decimal) string {
		return determinism.NewMoneyFromDecimal(d, table.Currency).Display()
	}

	w.Println("")
	w.SubHeader("Surcharges")
	fees := w.NewTable("Item", "Amount")
	fees.AddRow("Minimum price", money(policy.MinimumPrice))
	fees.AddRow("Measurement guarantee", money(policy.MeasurementGuaranteeFee))
	fees.AddRow("Motorised control", money(policy.MotorisedFee))
	fees.AddRow("Additional remote", money(policy.AdditionalRemoteFee))
	fees.AddRow("Smart hub (each)", money(policy.SmartHubFee))
	fees.Render()
	return nil
}
