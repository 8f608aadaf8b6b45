package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// thresholdCmd groups the CPR threshold management commands.
var thresholdCmd = &cobra.Command{
	Use:   "threshold",
	Short: "Manage minimum CPR thresholds per difficulty",
}

var thresholdShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current CPR threshold for every difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DIFFICULTY\tMIN CPR\tCRIME\t")
		for _, level := range app.registry.Levels() {
			fmt.Fprintf(w, "%d\t%d\t%s\t\n", level, app.registry.Get(level), app.registry.Name(level))
		}
		w.Flush()
		return nil
	},
}

var thresholdSetCmd = &cobra.Command{
	Use:   "set <difficulty> <cpr>",
	Short: "Set the minimum CPR for one difficulty (clamped to 0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid difficulty %q", args[0])
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid CPR value %q", args[1])
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		old, err := app.registry.SetMinimum(level, value)
		if err != nil {
			return err
		}
		fmt.Printf("Difficulty %d (%s): %d -> %d\n", level, app.registry.Name(level), old, app.registry.Get(level))
		return nil
	},
}

var thresholdSetAllCmd = &cobra.Command{
	Use:   "setall <cpr>",
	Short: "Set the same minimum CPR for every difficulty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid CPR value %q", args[0])
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.registry.SetAll(value); err != nil {
			return err
		}
		fmt.Printf("All difficulties set to minimum CPR %d\n", app.registry.Get(1))
		return nil
	},
}

var thresholdAdjustCmd = &cobra.Command{
	Use:   "adjust <percentage>",
	Short: "Adjust every minimum CPR by a percentage (e.g. 10 or -25)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pct, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid percentage %q", args[0])
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		changes, err := app.registry.AdjustAll(pct)
		if err != nil {
			return err
		}

		levels := make([]int, 0, len(changes))
		for level := range changes {
			levels = append(levels, level)
		}
		sort.Ints(levels)

		fmt.Printf("Adjusted all CPR thresholds by %+d%%\n", pct)
		for _, level := range levels {
			ch := changes[level]
			arrow := "->"
			if ch.To == ch.From {
				arrow = "=="
			}
			fmt.Printf("  difficulty %2d: %3d %s %3d\n", level, ch.From, arrow, ch.To)
		}
		return nil
	},
}

var thresholdResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default CPR thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.registry.Reset(); err != nil {
			return err
		}
		fmt.Println("CPR thresholds reset to defaults.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(thresholdCmd)
	thresholdCmd.AddCommand(thresholdShowCmd)
	thresholdCmd.AddCommand(thresholdSetCmd)
	thresholdCmd.AddCommand(thresholdSetAllCmd)
	thresholdCmd.AddCommand(thresholdAdjustCmd)
	thresholdCmd.AddCommand(thresholdResetCmd)
}
