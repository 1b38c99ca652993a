// Package main - Entry point for the blind configurator HTTP server
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blind-configurator/api"
	"blind-configurator/internal/app"
	"blind-configurator/internal/config"
	"blind-configurator/internal/logging"
)

const version = "1.0.0"

var (
	cfgFile string
	addr    string
)

func main() {
	root := &cobra.Command{
		Use:          "blind-configurator-server",
		Short:        "Serve the blind configurator API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         serve,
	}
	root.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blind-configurator/config.yaml)")
	root.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()
	logger := logging.Named("server")

	eng, err := app.NewEngine(cfg, version)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	cartAdapter := app.NewCart(cfg, logging.Named("cart"))

	server := api.NewServer(api.Options{
		Engine:         eng,
		Sessions:       app.NewSessions(cfg, eng),
		Cart:           cartAdapter,
		Logger:         logging.Named("api"),
		Version:        version,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	httpServer := server.HTTPServer(cfg.Server.Addr)

	ctx := cmd.Context()
	go server.Sweep(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.String("cart_strategy", cfg.Cart.Strategy),
			zap.Bool("cart_dry_run", cfg.Cart.StorefrontURL == ""))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
