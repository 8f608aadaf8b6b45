package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tornwatch/tornwatch/pkg/analyzer"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-difficulty statistics for the stored crime data.",
	Long:  "Prints per-difficulty statistics for the stored crime data.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		snap := app.cache.Current()
		engine := analyzer.New(app.registry)
		summary := engine.SummaryByLevel(snap)

		if len(snap.Crimes) == 0 {
			fmt.Println("No crime data stored. Run 'tornwatch update' first.")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "DIFFICULTY\tREQUIRED CPR\tACTIVE CRIMES\tOCCUPIED SLOTS\tFAILING SLOTS\t")

		var totalActive, totalOccupied, totalFailing int
		for _, row := range summary {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t\n",
				row.Level, row.RequiredCPR, row.ActiveCrimes, row.OccupiedSlots, row.FailingSlots)
			totalActive += row.ActiveCrimes
			totalOccupied += row.OccupiedSlots
			totalFailing += row.FailingSlots
		}

		fmt.Fprintln(w, " \t \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t \t%d\t%d\t%d\t\n", totalActive, totalOccupied, totalFailing)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
