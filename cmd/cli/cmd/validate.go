// Package cmd - steps and validate commands
package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"blind-configurator/core/determinism"
	"blind-configurator/internal/app"
	"blind-configurator/internal/errors"
)

var (
	stepsFlags    configurationFlags
	validateFlags configurationFlags
)

// stepsCmd shows the wizard checklist for a configuration
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Show the wizard steps and which are complete",
	Args:  cobra.NoArgs,
	RunE:  runSteps,
}

// validateCmd checks that a configuration can be submitted
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a configuration is ready for the cart",
	Long: `Check every wizard step and every chosen option against the catalog.

Exits non-zero and lists the problems when the configuration is incomplete.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	stepsFlags.register(stepsCmd)
	validateFlags.register(validateCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(validateCmd)
}

func runSteps(cmd *cobra.Command, args []string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	eng, err := app.NewEngine(cfg, Version)
	if err != nil {
		return err
	}
	blind, err := stepsFlags.build(cmd)
	if err != nil {
		return err
	}

	w := newWriter(cmd, cfg)
	steps := eng.Steps(blind)

	done := 0
	tbl := w.NewTable("#", "Step", "Status")
	for i, s := range steps {
		status := "incomplete"
		if s.Valid {
			status = "complete"
			done++
		} else if s.Optional {
			status = "optional"
		}
		tbl.AddRow(strconv.Itoa(i+1), s.Title, status)
	}
	tbl.Render()
	w.Println("")
	w.NewProgressBar(len(steps), "Progress").Update(done)
	w.Debug("Fingerprint: %s", determinism.Fingerprint(blind).Hex())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	eng, err := app.NewEngine(cfg, Version)
	if err != nil {
		return err
	}
	blind, err := validateFlags.build(cmd)
	if err != nil {
		return err
	}

	w := newWriter(cmd, cfg)
	if err := eng.CheckSubmittable(blind); err != nil {
		w.Error("Configuration is not ready")
		if e, ok := errors.As(err); ok {
			for _, field := range determinism.SortedKeys(e.Context) {
				w.Info("%s: %v", field, e.Context[field])
			}
		}
		return err
	}
	w.Success("Configuration is ready to submit")
	return nil
}
