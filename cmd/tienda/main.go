// Package main provides the tienda binary entry point.
// Tienda is a self-contained local storefront: a product catalog, a
// shopping cart, and a checkout flow served over HTTP and persisted in an
// embedded NATS JetStream KV bucket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/esteban2806/tienda-carrito/catalog"
	"github.com/esteban2806/tienda-carrito/config"
	"github.com/esteban2806/tienda-carrito/server"
	"github.com/esteban2806/tienda-carrito/session"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "tienda"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "tienda",
		Short: "Local storefront demo",
		Long: `Tienda is a self-contained storefront: product catalog, shopping
cart, and checkout, persisted in a local key-value store with no external
backend.

Running without a subcommand starts the HTTP API. The catalog seeds itself
from the configured default dataset on first run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(productsCmd(&configPath, &logLevel))
	cmd.AddCommand(demoCmd(&configPath, &logLevel))
	cmd.AddCommand(adminCmd())

	return cmd
}

// setupLogger configures the process-wide slog default.
func setupLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads the explicit config file when given, otherwise runs the
// layered loader.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

// startApp loads config and brings up a started App. Callers own Shutdown.
func startApp(ctx context.Context, configPath, logLevel string) (*App, error) {
	logger := setupLogger(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return nil, err
	}

	app := NewApp(cfg, logger)
	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func runServe(configPath, logLevel string) error {
	// Cancel everything (server and seed watcher alike) on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := startApp(ctx, configPath, logLevel)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	// Seed the catalog on first run. A failed seed leaves the shop
	// empty but serving; the admin reset endpoint can retry.
	if _, err := app.Catalog.EnsureLoaded(ctx); err != nil {
		app.logger.Warn("Could not seed catalog", "error", err)
	}

	srv := server.New(app.cfg.Server.Addr, app.Catalog, app.Carts, app.CartSvc,
		app.Checkout, app.Orders, app.Sessions, app.logger)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return srv.Run(ctx)
	})

	if app.cfg.Shop.WatchSeed {
		watcher, err := catalog.NewSeedWatcher(app.Catalog, app.cfg.Shop.SeedFile, app.logger)
		if err != nil {
			return fmt.Errorf("watch seed file: %w", err)
		}
		grp.Go(func() error {
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}

	return grp.Wait()
}

func productsCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the persisted catalog",
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := startApp(ctx, *configPath, *logLevel)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return app.Catalog.Export(ctx, w)
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	importCmd := &cobra.Command{
		Use:   "import <file-or-glob>",
		Short: "Replace the catalog from JSON documents",
		Long: `Replace the entire catalog with the products read from the given
file. Glob patterns (including **) import every matching document at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := startApp(ctx, *configPath, *logLevel)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			products, err := app.Catalog.ImportGlob(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d products\n", len(products))
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the catalog from the default dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := startApp(ctx, *configPath, *logLevel)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			products, err := app.Catalog.ResetFromDefault(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Catalog reset to %d products\n", len(products))
			return nil
		},
	}

	cmd.AddCommand(exportCmd, importCmd, resetCmd)
	return cmd
}

func demoCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Manage demo data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete catalog, cart, and orders (next run seeds again)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := startApp(ctx, *configPath, *logLevel)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			return app.ClearDemo(ctx)
		},
	})

	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "hash <password>",
		Short: "Generate the bcrypt hash for admin.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := session.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	})

	return cmd
}
