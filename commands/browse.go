package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivia-finder/headless"
	"trivia-finder/tui"
	"trivia-finder/widget"
)

const browseMount = "browse"

func newBrowseCmd(a *app) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "browse [locator]",
		Short: "Explore a dataset interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mp := headless.FullMount(browseMount, a.locator(args))
			mp.Title = title

			host := headless.NewHost()
			provider := headless.NewProvider(a.cfg.ViewportWidth, a.cfg.ViewportHeight, true)
			manager := widget.NewManager(nil, headless.NewPage(mp), host, provider,
				a.loader(), a.settings(), a.managerConfig(), a.logger)
			defer manager.Close()

			if err := manager.Boot(cmd.Context()); err != nil {
				return err
			}
			instances := manager.Instances()
			if len(instances) == 0 {
				return fmt.Errorf("could not bind the browse view")
			}

			return tui.Run(tui.New(instances[0], host.Mount(browseMount), provider.Map(mp.MapContainer)))
		},
	}

	cmd.Flags().StringVar(&title, "title", "Trivia Finder", "Heading shown above the filters")
	return cmd
}
