package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "QKart storefront in the terminal",
	Long: `Browse the QKart catalog, search it, manage your cart and check out
against a QKart backend.

Run without arguments to start the interactive storefront.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, true, func(ctx context.Context, app *container.Container) error {
			return app.Run(ctx)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		productsCmd,
		searchCmd,
		cartCmd,
		loginCmd,
		registerCmd,
		logoutCmd,
		checkoutCmd,
		ordersCmd,
	)
}

// withContainer loads the configuration, wires the container and runs fn.
// The interactive storefront sends its logs to the log file so they do not
// draw over the screen.
func withContainer(cmd *cobra.Command, interactive bool, fn func(ctx context.Context, app *container.Container) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg.Log, interactive)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	return fn(ctx, app)
}

func setupLogging(cfg config.LogConfig, interactive bool) (*os.File, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if !interactive {
		log.SetOutput(os.Stderr)
		return nil, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
