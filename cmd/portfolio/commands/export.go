package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portfolio/internal/engine"
	"portfolio/internal/exporter"
)

var (
	// Export flags
	outputDir string
	staticDir string
	adminURL  string
	workers   int
)

// exportCmd regenerates the static site
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the static site",
	Long: `Regenerate the complete static site from the current content.

The output directory is deleted and rebuilt on every run, so pages of
deleted projects never survive.

Examples:
  portfolio export                         # Export to $EXPORT_OUTPUT_DIR
  portfolio export --output /srv/www       # Export elsewhere
  portfolio export --admin-url https://cms.example.com/admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		exp, err := newExporter(newContent(db), exportOptions(cmd))
		if err != nil {
			return err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d projects to %s in %s\n",
			len(res.Projects), res.OutputDir, res.Duration.Round(time.Millisecond))
		if len(res.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %s\n", strings.Join(res.Skipped, ", "))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default $EXPORT_OUTPUT_DIR)")
	exportCmd.Flags().StringVar(&staticDir, "static", "", "Static asset directory (default $STATIC_DIR)")
	exportCmd.Flags().StringVar(&adminURL, "admin-url", "", "Admin application URL for the /admin/ redirect (default $ADMIN_URL)")
	exportCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent project renders (default $EXPORT_WORKERS)")
}

// exportOptions merges the configuration with the flags set on cmd.
func exportOptions(cmd *cobra.Command) exporter.Options {
	opts := exporter.Options{
		OutputDir: cfg.ExportOutputDir,
		AssetDir:  cfg.StaticDir,
		AdminURL:  cfg.AdminURL,
		Workers:   cfg.ExportWorkers,
	}
	if cmd == nil {
		return opts
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.OutputDir = outputDir
	}
	if flags.Changed("static") {
		opts.AssetDir = staticDir
	}
	if flags.Changed("admin-url") {
		opts.AdminURL = strings.TrimRight(adminURL, "/")
	}
	if flags.Changed("workers") {
		opts.Workers = workers
	}
	return opts
}

func newExporter(c *content, opts exporter.Options) (*exporter.Exporter, error) {
	eng, err := engine.New(siteName)
	if err != nil {
		return nil, fmt.Errorf("initialize template engine: %w", err)
	}
	return exporter.New(c.loader, eng, opts), nil
}
