// Package cmd implements the foogie CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/ledger"
	"github.com/foogie-app/foogie/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "foogie",
	Short: "Fridge-aware calorie and recipe tracker",
	Long:  "Track today's calories against your goal, cook from your fridge, and keep the inventory in sync.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.LoadEnv()
	},
	RunE: runToday,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Local database path (default "+store.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics to stderr")
}

// logger returns the diagnostics logger for library packages.
func logger() *log.Logger {
	if !flagVerbose {
		return ledger.Discard
	}
	return log.New(os.Stderr, "foogie: ", log.LstdFlags)
}

func openStore() (*store.DB, error) {
	path := flagDB
	if path == "" {
		path = store.DefaultPath()
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening local database: %w", err)
	}
	return db, nil
}

func newClient(cfg config.Config) *api.Client {
	return api.NewClient(cfg.Server.BaseURL, api.Options{
		SyncURL: cfg.Server.SyncURL,
		Timeout: cfg.RequestTimeout(),
	})
}

// env bundles what most commands need. Close releases the database.
type env struct {
	cfg    config.Config
	db     *store.DB
	client *api.Client
	ledger *ledger.Service
	log    *log.Logger
}

func (e *env) Close() {
	_ = e.db.Close()
}

// openEnv loads config, opens the store and builds the ledger service with
// the remote client as its sync notifier.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := openStore()
	if err != nil {
		return nil, err
	}

	lg := logger()
	client := newClient(cfg)
	svc, err := ledger.Open(ctx, ledger.Config{
		Store:    db,
		Notifier: client,
		Logger:   lg,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &env{cfg: cfg, db: db, client: client, ledger: svc, log: lg}, nil
}

func requireBinID(cfg config.Config) error {
	if cfg.Server.BinID == "" {
		return fmt.Errorf("no fridge bin ID configured; run `foogie setup` or set %s", config.EnvBinID)
	}
	return nil
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
