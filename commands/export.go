package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trivia-finder/storage"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		day      string
		location string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export [locator]",
		Short: "Write the matching venues as CSV or GeoJSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, _, err := a.filtered(cmd.Context(), a.locator(args), day, location)
			if err != nil {
				return err
			}

			w, err := a.exportWriter(strings.ToLower(format), out)
			if err != nil {
				return err
			}
			if err := w.Write(visible); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			if out != "-" {
				a.logger.Info("[export] %d venues written to %s", len(visible), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only venues on this day (default All)")
	cmd.Flags().StringVar(&location, "location", "", "Only venues in this location (default All)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format (csv, geojson)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file path, - for stdout")
	return cmd
}

func (a *app) exportWriter(format, out string) (storage.VenueWriter, error) {
	toStdout := out == "-" || out == ""
	switch format {
	case "csv":
		if toStdout {
			return storage.NewCSVStream(a.stdout)
		}
		return storage.NewCSVWriter(out)
	case "geojson", "json":
		if toStdout {
			return storage.NewGeoJSONStream(a.stdout), nil
		}
		return storage.NewGeoJSONWriter(out)
	default:
		return nil, fmt.Errorf("unknown export format %q (want csv or geojson)", format)
	}
}
