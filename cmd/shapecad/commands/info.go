package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnugroho/shapecad/pkg/dxf"
)

// info <file>: inspect a drawing or shapefile without converting it.
func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.dxf|file.shp>",
		Short: "Inspect a drawing or shapefile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if strings.EqualFold(filepath.Ext(path), ".shp") {
				return printDatasetInfo(path)
			}
			return printDrawingInfo(path)
		},
	}
}

func printDrawingInfo(path string) error {
	info := eng.DetectDrawingInfo(path)
	if info.Err != nil {
		return info.Err
	}

	fmt.Printf("Drawing: %s\n", info.Path)
	fmt.Printf("Version: %s\n", info.Version)
	if info.CRS != nil {
		fmt.Printf("Reference system: %s", info.CRS.Label())
		if info.CRS.SpatialRefID != 0 {
			fmt.Printf(" (EPSG:%d)", info.CRS.SpatialRefID)
		}
		fmt.Println()
	} else {
		fmt.Println("Reference system: none")
	}

	types := make([]string, 0, len(info.EntityCounts))
	for t := range info.EntityCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	fmt.Println("Entities:")
	for _, t := range types {
		fmt.Printf("  %-12s %d\n", t, info.EntityCounts[dxf.EntityType(t)])
	}
	return nil
}

func printDatasetInfo(path string) error {
	info := eng.DetectDatasetInfo(path)
	if info.Err != nil && info.GeometryCount == 0 {
		return info.Err
	}

	fmt.Printf("Shapefile: %s\n", info.Path)
	fmt.Printf("Geometries: %d\n", info.GeometryCount)
	if info.Category != "" {
		fmt.Printf("Feature type: %s", info.Category)
		if info.Mixed {
			fmt.Print(" (mixed)")
		}
		fmt.Println()
	}
	if len(info.Fields) > 0 {
		fmt.Printf("Fields: %s\n", strings.Join(info.Fields, ", "))
	}
	if info.CRS != nil {
		fmt.Printf("Reference system: %s", info.CRS.Label())
		if info.CRS.SpatialRefID != 0 {
			fmt.Printf(" (EPSG:%d)", info.CRS.SpatialRefID)
		}
		fmt.Println()
	} else {
		fmt.Println("Reference system: none")
	}
	if len(info.Samples) > 0 {
		fmt.Println("Preview:")
		for _, wkt := range info.Samples {
			fmt.Printf("  %s\n", wkt)
		}
	}
	return nil
}
