// README: geocode subcommand; prints the center a city name resolves to.
package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"tripmap/internal/maps"
)

var geocodeCity string

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve a city name to the center used for generated plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Maps.APIKey == "" {
			return eris.New("maps.api_key (or GOOGLE_MAPS_API_KEY) is required")
		}
		svc, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		p, err := svc.CityCenter(cmd.Context(), geocodeCity)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", geocodeCity, p)
		return err
	},
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeCity, "city", "", "city name")
	_ = geocodeCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(geocodeCmd)
}
