package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnugroho/shapecad/pkg/engine"
)

// to-dxf <input.shp> <output.dxf>: write a shapefile's geometries as
// drawing entities.
func toDxfCmd() *cobra.Command {
	var (
		version string
		binary  bool
	)

	cmd := &cobra.Command{
		Use:   "to-dxf <input.shp> <output.dxf>",
		Short: "Convert a shapefile to a drawing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if version == "" {
				version = cfg.Drawing.Version
			}
			if !cmd.Flags().Changed("binary") {
				binary = cfg.Drawing.Binary
			}

			res, err := eng.ToDrawing(engine.DrawingRequest{
				InputPath:     args[0],
				OutputPath:    args[1],
				FormatVersion: version,
				Binary:        binary,
			})
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

	cmd.Flags().StringVar(&version, "version", "", "drawing format version: R2010, R2013 or R2018")
	cmd.Flags().BoolVar(&binary, "binary", false, "write binary DXF instead of ASCII")
	return cmd
}
