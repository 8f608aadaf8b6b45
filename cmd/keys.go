package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// keysCmd groups API key management. Keys are stored in the local
// database and only ever printed in masked form.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the Torn API keys used for fetching",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured API keys (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		masked := app.keys.Masked()
		if len(masked) == 0 {
			fmt.Println("No API keys configured. Use 'tornwatch keys add <key>' to add one.")
			return nil
		}
		for i, m := range masked {
			fmt.Printf("%d. %s\n", i+1, m)
		}
		return nil
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add <key>",
	Short: "Add an API key to the rotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		count, err := app.keys.Add(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("API key added. %d key(s) configured.\n", count)
		return nil
	},
}

var keysRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove an API key from the rotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		count, err := app.keys.Remove(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("API key removed. %d key(s) configured.\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysRemoveCmd)
}
