// Package cmd provides the CLI commands for blind-configurator.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"blind-configurator/core/ui"
	"blind-configurator/internal/config"
	"blind-configurator/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
	noColor bool

	appConfig *config.Config
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "blind-configurator",
	Short: "Configure, price and order made-to-measure roller blinds",
	Long: `blind-configurator quotes blackout roller blinds against the storefront
price table, checks a configuration step by step, and hands finished
configurations to the shop cart.

Examples:
  blind-configurator quote --width 1300 --height 1200 --guarantee --hubs 2
  blind-configurator validate --file kitchen.yaml
  blind-configurator submit --file kitchen.yaml --dry-run
  blind-configurator table`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.Sync()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blind-configurator/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.ApplyEnv(os.LookupEnv)
	}
	if err != nil {
		configErr = err
		cfg = config.Default()
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	appConfig = cfg
}

// settings returns the loaded configuration or the error that prevented it
func settings() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	if appConfig == nil {
		return config.Default(), nil
	}
	return appConfig, nil
}

func colorDisabled(cfg *config.Config) bool {
	return noColor || !cfg.Output.Color
}

// newWriter returns the terminal writer for a command; --verbose shows debug lines
func newWriter(cmd *cobra.Command, cfg *config.Config) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), colorDisabled(cfg))
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blind-configurator version %s\n", Version)
	},
}
