package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolio/internal/database"
)

var (
	// Migrate flags
	seed bool
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending migration embedded in the binary.

Examples:
  portfolio migrate            # Apply pending migrations
  portfolio migrate --seed     # Also insert the default pages
  portfolio migrate status     # Show migration status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		if seed {
			return database.Seed(ctx, db)
		}
		return nil
	},
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		status, err := database.Status(ctx, db)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
		for _, s := range status {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
		}
		return w.Flush()
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "Insert the default about, contact and footer pages")
	migrateCmd.AddCommand(migrateStatusCmd)
}
