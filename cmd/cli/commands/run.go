package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/auditops/manday-planner/pkg/core/services"
)

// RunCmd creates the run command
func RunCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [workbook.xlsx]",
		Short: "Run the allocation over a workbook or CSV pair",
		Long: `Run the manday allocation: read the parameters and audit universe tables,
select units per department and tier, and write the results workbook and
audit log to the output directory.

Input is either a workbook argument (parameters on one sheet, universe on
another) or --params-csv together with --universe-csv.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paramsCSV, _ := cmd.Flags().GetString("params-csv")
			universeCSV, _ := cmd.Flags().GetString("universe-csv")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			noPersist, _ := cmd.Flags().GetBool("no-persist")

			input := services.RunPlanInput{
				ParamsCSV:   paramsCSV,
				UniverseCSV: universeCSV,
				OutputDir:   outputDir,
				Persist:     !noPersist,
			}
			if len(args) > 0 {
				input.WorkbookPath = args[0]
				input.SourceName = args[0]
			} else {
				input.SourceName = paramsCSV
			}
			if input.WorkbookPath == "" && (paramsCSV == "" || universeCSV == "") {
				return fmt.Errorf("provide a workbook argument or both --params-csv and --universe-csv")
			}

			app.Logger.Debug("run command",
				zap.String("source", input.SourceName),
				zap.Bool("persist", input.Persist))

			result, err := services.RunPlan(app.Ctx, app.Store, app.Logger, app.Cfg, input)
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			fmt.Printf("\nAllocation complete\n\n")
			fmt.Printf("Total mandays: %g\n", result.TotalMandays)
			fmt.Printf("Selected units: %d\n\n", result.Summary.SelectedUnits)

			fmt.Printf("%-20s %10s %10s %8s %5s %5s %5s\n",
				"Department", "Target", "Used", "Util%", "H", "M", "L")
			for _, dept := range result.Departments {
				fmt.Printf("%-20s %10.0f %10.0f %8.1f %5d %5d %5d\n",
					dept.Department, dept.TargetMandays, dept.UsedMandays,
					dept.UtilizationPct, dept.HighUnits, dept.MediumUnits, dept.LowUnits)
			}
			fmt.Printf("\n%-20s %10.0f %10.0f %8.1f\n", "TOTAL",
				result.Summary.MandaysAllocated, result.Summary.MandaysUsed,
				result.Summary.OverallUtilization)

			fmt.Printf("\nResults: %s\n", result.ResultsPath)
			fmt.Printf("Log:     %s\n", result.LogPath)
			if result.RunID != "" {
				fmt.Printf("Run ID:  %s\n", result.RunID)
			}

			return nil
		},
	}

	cmd.Flags().String("params-csv", "", "Parameters table as CSV (with --universe-csv)")
	cmd.Flags().String("universe-csv", "", "Audit universe table as CSV (with --params-csv)")
	cmd.Flags().String("output-dir", "", "Override the configured output directory")
	cmd.Flags().Bool("no-persist", false, "Skip recording the run in the database")

	return cmd
}
