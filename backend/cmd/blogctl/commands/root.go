package commands

import (
	"fmt"
	"os"

	"github.com/codingbrain01/MyBlog/shared/config"
	"github.com/codingbrain01/MyBlog/shared/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFolder string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Maintenance commands for the blog backend",
	Long: `blogctl runs one-off maintenance tasks against the blog database and
image bucket, using the same config folder as the API server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.InitializeWithWriter(os.Stderr, level, false)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFolder, "config", "config", "Folder with public.yaml, private.yaml and an optional .env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// loadConfig turns a config panic into an error so cobra can report it.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return config.MustLoad(configFolder), nil
}
