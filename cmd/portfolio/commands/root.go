// Package commands implements the portfolio command line.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/engine"
	"portfolio/internal/site"
	"portfolio/internal/store"
)

var (
	// Global flags
	verbose  bool
	siteName string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio CMS - content-managed portfolio with static export",
	Long: `Portfolio CMS stores projects, ordered content blocks and pages in
PostgreSQL, serves them as a live site with a JSON admin API, and exports
them as a self-contained static site.

Configuration is read from the environment (APP_*, POSTGRES_*, VALKEY_*,
S3_*, EXPORT_*, ADMIN_*, GITHUB_*), after loading .env if present.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		slog.Debug("configuration loaded", "env", cfg.Env)
		return nil
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel its context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&siteName, "site-name", engine.DefaultSiteName, "Site name shown in page headers and titles")

	rootCmd.AddCommand(serveCmd, exportCmd, migrateCmd, deployCmd)
}

// openDB connects to PostgreSQL with the configured pool size.
func openDB(ctx context.Context) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN(), cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// content bundles the stores and the loader built on them.
type content struct {
	projects *store.ProjectStore
	blocks   *store.BlockStore
	pages    *store.PageStore
	loader   *site.Loader
}

func newContent(db *sql.DB) *content {
	c := &content{
		projects: store.NewProjectStore(db),
		blocks:   store.NewBlockStore(db),
		pages:    store.NewPageStore(db),
	}
	c.loader = site.NewLoader(c.projects, c.blocks, c.pages)
	return c
}
