// README: Entry point; cobra root command loads config and the logger before any subcommand.
package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tripmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tripmap",
	Short: "Travel plan map service",
	Long:  "Serves interactive travel-plan sessions: places and restaurants on a map, a home base, routes and nearby restaurants. Plans come from bundled datasets or are generated by Gemini.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
