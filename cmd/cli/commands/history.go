package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted allocation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("run history requires a configured database (set databaseURL)")
			}

			runs, err := app.Store.GetPlanRuns(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			showDepartments, _ := cmd.Flags().GetBool("departments")

			fmt.Printf("\nFound %d runs:\n\n", len(runs))
			for _, run := range runs {
				fmt.Printf("%s  %s\n", run.CreatedAt.Format("2006-01-02 15:04"), run.ID)
				fmt.Printf("  Source: %s\n", run.SourceFile)
				fmt.Printf("  Total=%g Allocated=%g Used=%g Util=%.1f%% Units=%d\n",
					run.TotalMandays, run.MandaysAllocated, run.MandaysUsed,
					run.OverallUtilization, run.SelectedUnits)

				if showDepartments {
					departments, err := app.Store.GetDepartmentResults(app.Ctx, run.ID)
					if err != nil {
						return fmt.Errorf("failed to fetch department results: %w", err)
					}
					for _, dept := range departments {
						fmt.Printf("    %-20s Target=%.0f Used=%.0f Util=%.1f%% H:%d M:%d L:%d\n",
							dept.Department, dept.TargetMandays, dept.UsedMandays,
							dept.UtilizationPct, dept.HighUnits, dept.MediumUnits, dept.LowUnits)
					}
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().Bool("departments", false, "Include per-department results for each run")

	return cmd
}
