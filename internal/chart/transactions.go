package chart

import (
	"fmt"
	"slices"

	"github.com/cleared-dev/coa/internal/model"
)

// AddTransaction appends a transaction to an account and applies its signed
// amount to the balance.
func (f *Forest) AddTransaction(number int, txn model.Transaction) error {
	slot, ok := f.index[number]
	if !ok {
		return &model.NotFoundError{Number: number}
	}
	if err := txn.Validate(); err != nil {
		return &model.ValidationError{Field: "transaction", Reason: err.Error()}
	}

	acct := &f.nodes[slot].account
	acct.Transactions = append(acct.Transactions, txn)
	acct.Balance = acct.Balance.Add(txn.SignedAmount())
	return nil
}

// DeleteTransaction removes the transaction at index, reversing its effect on
// the balance. Later transactions shift down by one, so indexes obtained
// before the call are stale afterwards.
func (f *Forest) DeleteTransaction(number, index int) (model.Transaction, error) {
	slot, ok := f.index[number]
	if !ok {
		return model.Transaction{}, &model.NotFoundError{Number: number}
	}

	acct := &f.nodes[slot].account
	if index < 0 || index >= len(acct.Transactions) {
		return model.Transaction{}, &model.ValidationError{
			Field:  "transaction index",
			Reason: fmt.Sprintf("%d out of range [0, %d)", index, len(acct.Transactions)),
		}
	}

	removed := acct.Transactions[index]
	acct.Balance = acct.Balance.Sub(removed.SignedAmount())
	acct.Transactions = slices.Delete(acct.Transactions, index, index+1)
	return removed, nil
}

// RestoreTransactions attaches persisted history to an account without
// touching its balance, which already reflects those transactions. Either all
// transactions are attached or none are.
func (f *Forest) RestoreTransactions(number int, txns []model.Transaction) error {
	slot, ok := f.index[number]
	if !ok {
		return &model.NotFoundError{Number: number}
	}
	for i, txn := range txns {
		if err := txn.Validate(); err != nil {
			return &model.ValidationError{Field: fmt.Sprintf("transaction %d", i), Reason: err.Error()}
		}
	}

	acct := &f.nodes[slot].account
	acct.Transactions = append(acct.Transactions, txns...)
	return nil
}
