package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trivia-finder/services"
)

func newListCmd(a *app) *cobra.Command {
	var (
		day      string
		location string
		asHTML   bool
		summary  bool
	)

	cmd := &cobra.Command{
		Use:   "list [locator]",
		Short: "Print the venues matching a day and location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, f, err := a.filtered(cmd.Context(), a.locator(args), day, location)
			if err != nil {
				return err
			}

			if summary {
				services.Summarize(visible).Print(a.stdout)
				return nil
			}
			if len(visible) == 0 {
				if asHTML {
					fmt.Fprintln(a.stdout, services.RenderEmptyState())
				} else {
					fmt.Fprintln(a.stdout, "No venues found. Try adjusting filters.")
				}
				return nil
			}

			for _, v := range visible {
				if asHTML {
					card, err := services.RenderCard(v, fmt.Sprintf("venue-%d", v.ID))
					if err != nil {
						return fmt.Errorf("render venue %d: %w", v.ID, err)
					}
					fmt.Fprintln(a.stdout, card)
					continue
				}

				when := v.Day
				if v.DayTime != "" {
					when = strings.TrimSpace(when + " " + v.DayTime)
				}
				fmt.Fprintf(a.stdout, "%3d  %-30s  %-24s  %-18s  %s\n", v.ID, v.Name, when, v.Location, v.Address)
			}
			a.logger.Info("[list] %d venues (day=%s, location=%s)", len(visible), f.Day, f.Location)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only venues on this day (default All)")
	cmd.Flags().StringVar(&location, "location", "", "Only venues in this location (default All)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print list-card markup instead of text")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print counts per day and location")
	return cmd
}
