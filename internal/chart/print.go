package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/coa/internal/model"
)

const indent = "  "

// Print writes the whole chart, one account per line, indented by depth.
func (f *Forest) Print(w io.Writer) error {
	return f.Walk(func(acct model.Account, depth int) error {
		_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat(indent, depth), FormatLine(acct))
		return err
	})
}

// FormatLine renders "<number> - <description> (Balance: <balance>)".
func FormatLine(acct model.Account) string {
	return fmt.Sprintf("%d - %s (Balance: %s)", acct.Number, acct.Description, acct.Balance.StringFixed(2))
}
