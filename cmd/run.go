package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/vastu/internal/app"
	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/screens/home"
)

// runApp resolves configuration and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg := loadConfig()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	var notifyOpts []notify.Option
	if cfg.NotifyTimeout > 0 {
		notifyOpts = append(notifyOpts, notify.WithTimeout(cfg.NotifyTimeout))
	}

	opts := app.Options{
		Home: home.Options{
			Catalog:    catalog,
			Notifier:   notify.NewClient(cfg.NotifyURL, notifyOpts...),
			BookingURL: cfg.BookingURL,
		},
	}
	opts.SkipWelcome, _ = cmd.Flags().GetBool("no-splash")

	if cfg.CMSEnabled() {
		opts.Home.CMS = newCMSClient(cfg)
	} else {
		fmt.Fprintln(os.Stderr, "Content API not configured (VASTU_API_BASE_URL).")
		fmt.Fprintln(os.Stderr, "The content library will be unavailable.")
	}

	return app.Run(opts)
}
