package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citygen/pkg/artifact"
	"citygen/pkg/catalog"
	"citygen/pkg/part"
)

var geojsonPath string

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "List the cities a run would process",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		cat, err := catalog.Load(cfg.Input)
		if err != nil {
			return err
		}
		rng := selectRange(cfg)
		records, err := cat.Select(rng)
		if err != nil {
			return err
		}

		if geojsonPath != "" {
			return writeGeoJSON(geojsonPath, records)
		}

		layout := artifact.Layout{Root: cfg.Output}
		fmt.Printf("%d of %d cities in range %s\n\n", len(records), cat.Len(), rng.String())
		for _, r := range records {
			done := 0
			for _, k := range part.Kinds() {
				if artifact.Exists(layout.Path(r, k.Number(), k.Slug())) {
					done++
				}
			}
			fmt.Printf("  %-8s %-30s %-24s %9.4f %9.4f  parts: %d/%d\n",
				r.ID, r.Name, r.Country, r.Latitude, r.Longitude, done, len(part.Kinds()))
		}
		return nil
	},
}

func init() {
	addRangeFlags(selectCmd)
	selectCmd.Flags().StringVar(&geojsonPath, "geojson", "", "Write the selection as a GeoJSON FeatureCollection to this file (- for stdout)")
}

func writeGeoJSON(path string, records []catalog.Record) error {
	data, err := catalog.FeatureCollection(records).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	if path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := artifact.WriteFileAtomic(path, data); err != nil {
		return err
	}
	fmt.Printf("Wrote %d cities to %s\n", len(records), path)
	return nil
}
