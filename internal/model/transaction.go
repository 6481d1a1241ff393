package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DebitCredit tags which side of the account a transaction posts to.
type DebitCredit string

const (
	Debit  DebitCredit = "debit"
	Credit DebitCredit = "credit"
)

// ParseDebitCredit accepts "debit"/"credit" (any case) and the short forms "d"/"c".
func ParseDebitCredit(s string) (DebitCredit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit", "d", "dr":
		return Debit, nil
	case "credit", "c", "cr":
		return Credit, nil
	}
	return "", fmt.Errorf("unknown debit/credit tag %q", s)
}

// Valid reports whether dc is one of the two known tags.
func (dc DebitCredit) Valid() bool {
	return dc == Debit || dc == Credit
}

// Transaction is a single posting against one account. It is never modified
// once created.
type Transaction struct {
	ID          string
	Amount      decimal.Decimal // always >= 0
	DebitCredit DebitCredit
}

// SignedAmount returns the effect on the account balance:
// credits add, debits subtract.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.DebitCredit == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the amount and tag.
func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount %s is negative", t.Amount)
	}
	if !WholeCents(t.Amount) {
		return fmt.Errorf("amount %s has more than 2 decimal places", t.Amount)
	}
	if !t.DebitCredit.Valid() {
		return fmt.Errorf("unknown debit/credit tag %q", t.DebitCredit)
	}
	return nil
}
