package commands

import (
	"fmt"

	"github.com/codingbrain01/MyBlog/backend/internal/storage/pg"
	sharedpg "github.com/codingbrain01/MyBlog/shared/storage/pg"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the posts and comments tables",
	Long: `Apply the schema to the configured database. The schema only creates
missing tables and indexes, so running it twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		storage, err := pg.NewWithConnectionConfig(cmd.Context(), cfg, sharedpg.LightweightConnectionConfig())
		if err != nil {
			return err
		}
		defer storage.Cleanup()

		if err := storage.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
