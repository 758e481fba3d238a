package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnugroho/shapecad/pkg/engine"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

// to-shp <input.dxf> <output.shp>: extract one feature type from a
// drawing into a shapefile.
func toShpCmd() *cobra.Command {
	var (
		featureType string
		datum       string
		zone        int
		autoCRS     bool
	)

	cmd := &cobra.Command{
		Use:   "to-shp <input.dxf> <output.shp>",
		Short: "Convert a drawing to a shapefile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if featureType == "" {
				featureType = cfg.FeatureType
			}
			category, err := geometry.ParseCategory(featureType)
			if err != nil {
				return err
			}

			req := engine.GeographicRequest{
				InputPath:  args[0],
				OutputPath: args[1],
				Category:   category,
			}
			if !autoCRS {
				if datum == "" {
					datum = cfg.Datum
				}
				if zone == 0 {
					zone = cfg.Zone
				}
				req.Datum = datum
				req.Zone = zone
			}

			res, err := eng.ToGeographic(req)
			if err != nil {
				return err
			}

			fmt.Printf("Converted %d %s to %s", res.ConvertedCount, res.DetectedCategory, args[1])
			if res.SkippedCount > 0 {
				fmt.Printf(" (%d skipped)", res.SkippedCount)
			}
			if res.CRS != nil {
				fmt.Printf(" [%s]", res.CRS.Label())
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&featureType, "type", "t", "", "feature type to extract: Points, Lines or Areas")
	cmd.Flags().StringVar(&datum, "datum", "", "datum of the drawing coordinates (GDA94 or GDA2020)")
	cmd.Flags().IntVar(&zone, "zone", 0, "MGA zone of the drawing coordinates (50-56)")
	cmd.Flags().BoolVar(&autoCRS, "auto-crs", false, "take the reference system from the drawing header instead of flags")
	return cmd
}
