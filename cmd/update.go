package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// updateCmd fetches the latest crime list and replaces the stored
// snapshot. A failed fetch leaves the previous snapshot in place.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the latest crime data from the Torn API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		client, err := app.newClient(cmd)
		if err != nil {
			return err
		}

		snap, err := client.FetchCrimes(cmd.Context())
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}
		if err := app.cache.Replace(snap); err != nil {
			return err
		}

		fmt.Printf("Fetched %d crime(s) at %s\n", len(snap.Crimes), snap.FetchedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
