package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/codingbrain01/MyBlog/backend/internal/service"
	"github.com/codingbrain01/MyBlog/backend/internal/storage/fs"
	"github.com/codingbrain01/MyBlog/backend/internal/storage/pg"
	sharedpg "github.com/codingbrain01/MyBlog/shared/storage/pg"
	"github.com/spf13/cobra"
)

var (
	// Sweep flags
	threshold  time.Duration
	jsonOutput bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete bucket images that no post or comment references",
	Long: `Run a single orphan sweep. Objects younger than the threshold are kept
so uploads that are still being saved are not removed.

Examples:
  blogctl sweep                     # use media.orphan_sweep_threshold
  blogctl sweep --threshold 10m     # override the minimum age
  blogctl sweep --json              # print the stats as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		media := cfg.Public.Media
		if threshold <= 0 {
			threshold = media.OrphanSweepThreshold
		}

		storage, err := pg.NewWithConnectionConfig(cmd.Context(), cfg, sharedpg.LightweightConnectionConfig())
		if err != nil {
			return err
		}
		defer storage.Cleanup()

		objects, err := fs.New(media.RootPath, media.Bucket, media.PublicBaseURL)
		if err != nil {
			return err
		}
		images := service.NewImageStore(objects, objects.PublicURL())
		sweeper := service.NewOrphanSweeper(storage, objects, images, threshold)

		if err := sweeper.RunCleanup(cmd.Context()); err != nil {
			return err
		}
		return printStats(cmd, sweeper.GetLastStats())
	},
}

func printStats(cmd *cobra.Command, stats service.SweepStats) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(out, "scanned:    %d\n", stats.KeysScanned)
	fmt.Fprintf(out, "referenced: %d\n", stats.Referenced)
	fmt.Fprintf(out, "too young:  %d\n", stats.TooYoung)
	fmt.Fprintf(out, "deleted:    %d/%d\n", stats.KeysDeleted, stats.Orphaned)
	for _, e := range stats.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
	if len(stats.Errors) > 0 {
		return fmt.Errorf("sweep finished with %d errors", len(stats.Errors))
	}
	return nil
}

func init() {
	sweepCmd.Flags().DurationVar(&threshold, "threshold", 0, "Minimum object age before deletion (default from config)")
	sweepCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddCommand(sweepCmd)
}
