package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tornwatch/tornwatch/internal/utils"
)

// watchCmd runs update on a fixed interval until interrupted. Fetch
// failures are logged and the loop keeps going with the last good
// snapshot.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically refresh crime data until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		intervalStr, _ := cmd.Flags().GetString("interval")
		if intervalStr == "" {
			intervalStr = viper.GetString("watch.interval")
		}
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", intervalStr, err)
		}
		if interval < time.Minute {
			return fmt.Errorf("interval %s is too short, minimum is 1m", interval)
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		client, err := app.newClient(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		refresh := func() {
			snap, err := client.FetchCrimes(ctx)
			if err != nil {
				utils.Log.Errorf("Auto-update failed: %v", err)
				return
			}
			if err := app.cache.Replace(snap); err != nil {
				utils.Log.Errorf("Could not store crime data: %v", err)
				return
			}
			utils.Log.Infof("Auto-updated crime data: %d crime(s)", len(snap.Crimes))
		}

		utils.Log.Infof("Watching crimes, refreshing every %s", interval)
		refresh()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				utils.Log.Info("Stopping watch")
				return nil
			case <-ticker.C:
				refresh()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("interval", "", "Time between refreshes (default 1h, e.g. 30m, 2h)")
}
