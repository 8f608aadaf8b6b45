package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tornwatch/tornwatch/pkg/analyzer"
)

// problematicCmd lists users holding slots below the required CPR,
// worst offenders first.
var problematicCmd = &cobra.Command{
	Use:   "problematic",
	Short: "List users below the required CPR across all active crimes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		snap := app.cache.Current()
		if len(snap.Crimes) == 0 {
			fmt.Println("No crime data stored. Run 'tornwatch update' first.")
			return nil
		}

		engine := analyzer.New(app.registry)
		users := engine.ProblematicUsers(snap)
		if len(users) == 0 {
			fmt.Println("No users below their required CPR. Nothing to report.")
			return nil
		}

		if limit > 0 && len(users) > limit {
			users = users[:limit]
		}

		for _, u := range users {
			fmt.Printf("User %d: %d/%d slot(s) below required CPR\n", u.UserID, u.FailingSlots, u.TotalSlots)
			for _, p := range u.Positions {
				fmt.Printf("  %-20s %d/%d failing\n", p.Position, p.FailingSlots, p.TotalSlots)
			}
			for _, c := range u.Crimes {
				fmt.Printf("  %s (#%d) as %s: CPR %d, needs %d (short by %d)\n",
					c.CrimeName, c.CrimeID, c.Position, c.CurrentCPR, c.RequiredCPR, c.Deficit)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(problematicCmd)
	problematicCmd.Flags().Int("limit", 0, "Show at most this many users (0 = all)")
}
