package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/coa/internal/chart"
)

func newAccountCommand(flags *globalFlags) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Add, find, and list accounts",
	}
	accountCmd.AddCommand(
		newAccountAddCommand(flags),
		newAccountFindCommand(flags),
		newAccountShowCommand(flags),
		newAccountRenameCommand(flags),
	)
	return accountCmd
}

func newAccountAddCommand(flags *globalFlags) *cobra.Command {
	var balance string

	cmd := &cobra.Command{
		Use:   "add <number> <description>",
		Short: "Add an account; its place in the chart follows from its number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount("balance", balance)
			if err != nil {
				return err
			}

			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if err := l.AddAccount(number, args[1], amount); err != nil {
				return err
			}

			node, err := l.Find(number)
			if err != nil {
				return err
			}
			if parent, ok := node.Parent(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d under %d\n", number, parent)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d as a top-level account\n", number)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", decimal.Zero.String(), "opening balance")
	return cmd
}

func newAccountFindCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "find <number>",
		Short: "Show one account and its position in the chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}
			node, err := l.Find(number)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			acct := node.Account()
			fmt.Fprintln(out, chart.FormatLine(acct))
			if parent, ok := node.Parent(); ok {
				fmt.Fprintf(out, "Parent:       %d\n", parent)
			} else {
				fmt.Fprintln(out, "Parent:       (none)")
			}
			fmt.Fprintf(out, "Depth:        %d\n", node.Depth())
			fmt.Fprintf(out, "Children:     %s\n", joinNumbers(node.Children()))
			fmt.Fprintf(out, "Transactions: %d\n", len(acct.Transactions))
			return nil
		},
	}
}

func newAccountShowCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the whole chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return l.Print(cmd.OutOrStdout())
		},
	}
}

func newAccountRenameCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <number> <description>",
		Short: "Change an account's description",
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
			if err := l.RenameAccount(number, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %d to %s\n", number, args[1])
			return nil
		},
	}
}

func joinNumbers(numbers []int) string {
	if len(numbers) == 0 {
		return "(none)"
	}
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
