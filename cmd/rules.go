package cmd

import (
	"fmt"

	"procdiff/core/scrub"
	"procdiff/core/source"

	"github.com/spf13/cobra"
)

// rulesCmd prints a scrub rule set the way a comparison will apply it.
var rulesCmd = &cobra.Command{
	Use:   "rules <uri>",
	Short: "Show the scrub rules loaded from a file",
	Long: `Loads a scrub rules sheet (xlsx, csv) or document (yaml) and prints the rules in
evaluation order. Rules without any condition are ignored and counted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		rs, err := scrub.Load(cmd.Context(), source.NewOpener(e.store, e.db), args[0], scrub.DefaultLayout())
		if err != nil {
			return err
		}

		fmt.Print(renderRules(rs))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(rulesCmd)
}
