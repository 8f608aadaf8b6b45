package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tornwatch/tornwatch/pkg/analyzer"
)

// analyzeCmd prints every active crime with slots below the required
// CPR.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "List active crimes with slots below the required CPR",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		report := engine.EvaluateAll(snap)

		fmt.Printf("Crimes: %d total, %d active\n", report.TotalCrimes, report.ActiveCrimes)
		if len(report.CrimesWithLowCPR) == 0 {
			fmt.Println("All occupied slots in active crimes meet their CPR requirements.")
			return nil
		}

		for _, cr := range report.CrimesWithLowCPR {
			fmt.Printf("\n%s (#%d)  difficulty %d  %s  required CPR %d\n",
				cr.CrimeName, cr.CrimeID, cr.Difficulty, cr.Status, cr.RequiredCPR)
			for _, f := range cr.Failing {
				fmt.Printf("  %-20s user %-10d CPR %3d  (short by %d)\n",
					f.Position, f.UserID, f.CurrentCPR, f.Deficit)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
