package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"trivia-finder/dom"
	"trivia-finder/headless"
	"trivia-finder/widget"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		page    string
		browser bool
		out     string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every widget mount in a host page to HTML snapshots",
		Long: `render scans a host page for trivia-finder mounts, binds one widget to each,
signals that the map provider is ready and writes one HTML snapshot per widget.

With --browser the page is loaded in headless Chrome and re-read on every
discovery attempt, so mounts inserted by page scripts are found as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page == "" {
				return fmt.Errorf("--page is required")
			}
			doc, closeDoc, err := a.openPage(cmd.Context(), page, browser)
			if err != nil {
				return err
			}
			defer closeDoc()

			paths, err := a.render(cmd.Context(), doc, out)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(a.stdout, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "Host page to scan (file path or URL)")
	cmd.Flags().BoolVar(&browser, "browser", false, "Load the page in headless Chrome")
	cmd.Flags().StringVarP(&out, "out", "o", "snapshots", "Directory for the snapshots")
	return cmd
}

func (a *app) openPage(ctx context.Context, page string, browser bool) (widget.Document, func(), error) {
	if browser {
		doc, err := dom.OpenBrowser(page, a.cfg.ChromeBin, a.cfg.FetchTimeout(), a.logger)
		if err != nil {
			return nil, nil, err
		}
		return doc, doc.Close, nil
	}

	doc, err := dom.LoadStatic(ctx, page, &http.Client{Timeout: a.cfg.FetchTimeout()})
	if err != nil {
		return nil, nil, err
	}
	return doc, func() {}, nil
}

// render drives a page through discovery and provider readiness, then
// snapshots every bound instance.
func (a *app) render(ctx context.Context, doc widget.Document, out string) ([]string, error) {
	host := headless.NewHost()
	provider := headless.NewProvider(a.cfg.ViewportWidth, a.cfg.ViewportHeight, false)
	manager := widget.NewManager(nil, doc, host, provider, a.loader(), a.settings(), a.managerConfig(), a.logger)
	defer manager.Close()

	if err := manager.Boot(ctx); err != nil {
		return nil, err
	}
	provider.SetLoaded()
	if err := manager.ProviderReady(ctx); err != nil {
		return nil, err
	}
	if manager.Exhausted() {
		a.logger.Warn("[render] No trivia-finder mounts found")
		return nil, nil
	}

	var paths []string
	for _, in := range manager.Instances() {
		mount := host.Mount(in.Mount().Key)
		var mv *headless.MapView
		if mount.Point.MapContainer != "" {
			mv = provider.Map(mount.Point.MapContainer)
		}
		path, err := headless.WriteSnapshotFile(out, in, mount, mv)
		if err != nil {
			return paths, err
		}
		a.logger.Info("[render] %s: %s, %d venues visible", in.Mount().Key, in.State(), len(in.Visible()))
		paths = append(paths, path)
	}
	return paths, nil
}
