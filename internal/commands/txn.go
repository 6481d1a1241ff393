package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/coa/internal/id"
	"github.com/cleared-dev/coa/internal/importer"
	"github.com/cleared-dev/coa/internal/model"
	"github.com/cleared-dev/coa/internal/report"
)

func newTxnCommand(flags *globalFlags) *cobra.Command {
	txnCmd := &cobra.Command{
		Use:   "txn",
		Short: "Apply, delete, list, and import transactions",
	}
	txnCmd.AddCommand(
		newTxnApplyCommand(flags),
		newTxnDeleteCommand(flags),
		newTxnListCommand(flags),
		newTxnImportCommand(flags),
	)
	return txnCmd
}

func newTxnApplyCommand(flags *globalFlags) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "apply <account> <debit|credit> <amount>",
		Short: "Apply a transaction; credits raise the balance, debits lower it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			dc, err := model.ParseDebitCredit(args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount("amount", args[2])
			if err != nil {
				return err
			}
			txnID := ""
			if ref != "" {
				if txnID, err = id.ParseTransactionID(ref); err != nil {
					return err
				}
			}

			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}
			stored, err := l.ApplyTransaction(number, model.Transaction{ID: txnID, Amount: amount, DebitCredit: dc})
			if err != nil {
				return err
			}

			node, err := l.Find(number)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s %s to %d (%s), balance %s\n",
				stored.DebitCredit, stored.Amount.StringFixed(2), number, id.Short(stored.ID),
				node.Account().Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "id", "", "transaction reference (generated when empty)")
	return cmd
}

func newTxnDeleteCommand(flags *globalFlags) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "delete <account> [index]",
		Short: "Delete a transaction by index or by --id and reverse its effect",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			if (len(args) == 2) == (ref != "") {
				return fmt.Errorf("give exactly one of an index or --id")
			}

			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}

			var index int
			if ref != "" {
				index, err = l.TransactionIndex(number, ref)
			} else {
				index, err = strconv.Atoi(args[1])
				if err != nil {
					err = &model.ValidationError{Field: "index", Reason: fmt.Sprintf("%q is not an integer", args[1])}
				}
			}
			if err != nil {
				return err
			}

			removed, err := l.DeleteTransaction(number, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s from %d (%s)\n",
				removed.DebitCredit, removed.Amount.StringFixed(2), number, id.Short(removed.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "id", "", "transaction reference or unique prefix")
	return cmd
}

func newTxnListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <account>",
		Short: "List an account's transactions in application order",
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

			acct := node.Account()
			if len(acct.Transactions) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No transactions on %d.\n", number)
				return nil
			}
			report.WriteTable(cmd.OutOrStdout(), acct)
			return nil
		},
	}
}

func newTxnImportCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <account> <file>",
		Short: "Import a bank CSV export into one account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseAccountNumber(args[0])
			if err != nil {
				return err
			}
			txns, err := importer.DefaultRegistry().ParseFile(format, args[1])
			if err != nil {
				return err
			}

			l, err := openLedger(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if err := l.Import(number, txns); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions into %d\n", len(txns), number)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "bank export format (chase, simple)")
	return cmd
}
