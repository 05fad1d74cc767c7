package cmd

import (
	"fmt"

	"procdiff/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag   bool
	tableFlag string
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check storage structure and snapshot tables",
	Long: `Checks that the storage bucket has the snapshots/, rules/ and reports/ folders and,
with --table, that a database table exposes every column a comparison needs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.log.Sync()
		logg := e.log

		svc := integrity.NewService(e.store, e.cfg.Storage.Bucket, logg, e.db, e.schema)
		ctx := cmd.Context()

		logg.Info("Checking folder structure...", zap.String("bucket", e.cfg.Storage.Bucket))
		structure, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		switch {
		case structure.OK():
			logg.Info("Structure is intact.")
		case fixFlag:
			logg.Warn("Storage structure incomplete", zap.Bool("bucket_exists", structure.BucketExists), zap.Strings("missing", structure.Missing))
			logg.Info("Fixing storage structure...")
			if err := svc.FixStructure(ctx, structure); err != nil {
				return fmt.Errorf("failed to fix structure: %w", err)
			}
			logg.Info("Structure fixed successfully.")
		default:
			logg.Warn("Storage structure incomplete", zap.Bool("bucket_exists", structure.BucketExists), zap.Strings("missing", structure.Missing))
			logg.Info("Run with --fix to create missing folders.")
		}

		if tableFlag == "" {
			return nil
		}

		logg.Info("Checking snapshot table...", zap.String("table", tableFlag))
		report, err := svc.CheckTable(tableFlag)
		if err != nil {
			return fmt.Errorf("table check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Table has every required column.", zap.String("table", report.Table))
		} else {
			logg.Warn("Missing Columns", zap.String("table", report.Table), zap.Strings("columns", report.Missing))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)

	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing folders")
	integrityCmd.Flags().StringVar(&tableFlag, "table", "", "Database table to check for required columns")
}
