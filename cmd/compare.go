package cmd

import (
	"fmt"

	"procdiff/core/report"
	"procdiff/core/source"
	"procdiff/feature/compare"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	previousFlag string
	currentFlag  string
	rulesFlag    string
	outFlag      string
	formatFlag   string
)

// compareCmd runs one comparison and publishes its report.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two snapshots and write the mismatch report",
	Long: `Compares the previous and current snapshot, applies the scrub rules and writes
the report to a directory or an s3://bucket/prefix destination.

Examples:
  procdiff compare --previous data/Lastweekfile.xlsx --current data/Currentweekfile.xlsx \
    --rules "data/Scrub rules.xlsx"

  procdiff compare --previous s3://compare/snapshots/prev.csv --current db://fee_schedule \
    --out s3://compare/reports --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		name := formatFlag
		if name == "" {
			name = e.cfg.Compare.Format
		}
		format, err := report.ParseFormat(name)
		if err != nil {
			return err
		}

		svc := compare.NewService(
			source.NewOpener(e.store, e.db),
			report.NewPublisher(e.store),
			compare.Options{
				Schema: e.schema,
				Rules:  e.cfg.Compare.Rules,
				Output: e.cfg.Compare.Output,
				Format: format,
				Prefix: e.cfg.Compare.ReportPrefix,
			},
			e.log,
		)

		result, err := svc.Report(cmd.Context(), compare.Request{
			Previous: previousFlag,
			Current:  currentFlag,
			Rules:    rulesFlag,
		}, outFlag, format)
		if err != nil {
			return err
		}

		fmt.Println(renderSummary(result.Plan.Summary, result.Location))
		e.log.Debug("Compare command finished", zap.String("run_id", result.RunID))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&previousFlag, "previous", "", "Previous snapshot (path, s3://bucket/key or db://table)")
	compareCmd.Flags().StringVar(&currentFlag, "current", "", "Current snapshot (path, s3://bucket/key or db://table)")
	compareCmd.Flags().StringVar(&rulesFlag, "rules", "", "Scrub rules (xlsx, csv or yaml); defaults to COMPARE_RULES")
	compareCmd.Flags().StringVar(&outFlag, "out", "", "Report destination directory or s3://bucket/prefix; defaults to COMPARE_OUTPUT")
	compareCmd.Flags().StringVar(&formatFlag, "format", "", "Report format: xlsx, csv or json; defaults to COMPARE_FORMAT")
	_ = compareCmd.MarkFlagRequired("previous")
	_ = compareCmd.MarkFlagRequired("current")
}
