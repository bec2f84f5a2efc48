// README: plan subcommand; generates one dataset through Gemini and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tripmap/internal/modules/dataset"
)

var (
	planCity  string
	planDays  int
	planPrefs string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a trip plan and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dataset.Request{CityName: planCity, NumDays: planDays, Preferences: planPrefs}
		if err := req.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if t := cfg.Gemini.Timeout(); t > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, t)
			defer cancel()
		}

		gen, gemini, err := newGenerator(ctx, cfg)
		if err != nil {
			return err
		}
		defer gemini.Close()

		d, err := gen.Generate(ctx, req)
		if err != nil {
			return err
		}
		zap.L().Info("plan generated",
			zap.String("title", d.Title),
			zap.Int("places", len(d.Places)),
			zap.Int("restaurants", len(d.Restaurants)),
		)

		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode plan")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	planCmd.Flags().StringVar(&planCity, "city", "", "destination city")
	planCmd.Flags().IntVar(&planDays, "days", 3, "trip length in days (1-30)")
	planCmd.Flags().StringVar(&planPrefs, "prefs", "", "free-text preferences")
	_ = planCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(planCmd)
}
