// README: nearby subcommand; ranks entities of a bundled dataset around a point.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"tripmap/internal/modules/dataset"
	"tripmap/internal/modules/proximity"
	"tripmap/internal/types"
)

var (
	nearbyDataset string
	nearbyLat     float64
	nearbyLng     float64
	nearbyKind    string
	nearbyRadius  float64
	nearbyLimit   int
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List the closest places or restaurants of a bundled dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		static, err := dataset.NewStaticProvider(cfg.Dataset.Static)
		if err != nil {
			return err
		}
		name := nearbyDataset
		if name == "" {
			name = static.Default()
		}
		d, ok := static.Named(name)
		if !ok {
			return eris.Errorf("unknown dataset %q", name)
		}
		kind, ok := dataset.ParseKind(nearbyKind)
		if !ok {
			return eris.Errorf("unknown kind %q", nearbyKind)
		}
		ref := types.Point{Lat: nearbyLat, Lng: nearbyLng}
		if !ref.Valid() {
			return eris.Errorf("point %s out of range", ref)
		}

		p := proximity.Policy{RadiusKm: cfg.Proximity.RadiusKm, MaxCount: cfg.Proximity.MaxCount}
		if nearbyRadius > 0 {
			p.RadiusKm = nearbyRadius
		}
		if nearbyLimit > 0 {
			p.MaxCount = nearbyLimit
		}
		matches := p.WithDefaults().Nearby(ref, d.Collection(kind))

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKM")
		for _, m := range matches {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", m.Entity.ID, m.Entity.Name, m.DistanceKm)
		}
		return w.Flush()
	},
}

func init() {
	nearbyCmd.Flags().StringVar(&nearbyDataset, "dataset", "", "bundled dataset (default from config)")
	nearbyCmd.Flags().Float64Var(&nearbyLat, "lat", 0, "reference latitude")
	nearbyCmd.Flags().Float64Var(&nearbyLng, "lng", 0, "reference longitude")
	nearbyCmd.Flags().StringVar(&nearbyKind, "kind", "restaurants", "places or restaurants")
	nearbyCmd.Flags().Float64Var(&nearbyRadius, "radius", 0, "radius in km (default from config)")
	nearbyCmd.Flags().IntVar(&nearbyLimit, "limit", 0, "max results (default from config)")
	_ = nearbyCmd.MarkFlagRequired("lat")
	_ = nearbyCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(nearbyCmd)
}
