package model

import "github.com/shopspring/decimal"

// Account is one entry in the chart of accounts.
type Account struct {
	Number       int
	Description  string
	Balance      decimal.Decimal
	Transactions []Transaction // application order
}

// WholeCents reports whether d has no more than two decimal places.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// OpeningBalance is the balance before any of the current transactions were applied.
func (a Account) OpeningBalance() decimal.Decimal {
	return a.Balance.Sub(a.NetChange())
}

// NetChange sums the signed effect of every transaction on the account.
func (a Account) NetChange() decimal.Decimal {
	net := decimal.Zero
	for _, t := range a.Transactions {
		net = net.Add(t.SignedAmount())
	}
	return net
}

// Clone returns a copy that shares no transaction storage with a.
func (a Account) Clone() Account {
	c := a
	if a.Transactions != nil {
		c.Transactions = make([]Transaction, len(a.Transactions))
		copy(c.Transactions, a.Transactions)
	}
	return c
}
