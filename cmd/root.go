package cmd

import (
	"fmt"
	"os"

	"procdiff/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "procdiff",
	Short: "Procedure-code snapshot comparator",
	Long: `procdiff compares two snapshots of a procedure-code fee schedule, classifies
every record as New, Modified or Termed, and flags records matched by scrub rules.
Snapshots are read from local files, S3 buckets or database tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug config gives ISO8601 timestamps, console encoding suits a terminal
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
