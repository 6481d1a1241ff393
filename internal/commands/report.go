package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report <account> <name>",
		Short: "Write a detailed account report to the reports directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}
			path, err := l.Report(number, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
}
