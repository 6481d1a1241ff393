// Package chart holds the chart-of-accounts forest: a set of account trees
// whose shape is derived entirely from the account numbers present.
package chart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/coa/internal/model"
)

// noParent marks a root node.
const noParent = -1

// node is one arena slot. Slots are never reused or moved, so indices held
// in parent/children stay valid for the forest's lifetime.
type node struct {
	account  model.Account
	parent   int
	children []int // insertion order
}

// Forest is a chart of accounts. The zero value is not usable; call New.
type Forest struct {
	nodes []*node
	roots []int
	index map[int]int // account number -> slot
}

// New returns an empty forest.
func New() *Forest {
	return &Forest{index: make(map[int]int)}
}

// Len returns the number of accounts.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Contains reports whether an account number exists.
func (f *Forest) Contains(number int) bool {
	_, ok := f.index[number]
	return ok
}

// AddAccount inserts an account under its nearest existing ancestor, or as a
// new root when it has none. Existing accounts at the insertion level that the
// new account is now the nearest ancestor of move beneath it, so the shape
// depends only on which numbers are present.
func (f *Forest) AddAccount(number int, description string, balance decimal.Decimal) error {
	if number <= 0 {
		return &model.ValidationError{Field: "account number", Reason: fmt.Sprintf("%d is not positive", number)}
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if !model.WholeCents(balance) {
		return &model.ValidationError{Field: "balance", Reason: fmt.Sprintf("%s has more than 2 decimal places", balance)}
	}
	if f.Contains(number) {
		return &model.ValidationError{Field: "account number", Reason: fmt.Sprintf("%d already exists", number)}
	}

	parent := f.nearestAncestor(number)
	slot := len(f.nodes)
	n := &node{
		account: model.Account{Number: number, Description: description, Balance: balance},
		parent:  parent,
	}
	f.nodes = append(f.nodes, n)
	f.index[number] = slot

	siblings := f.childSlots(parent)
	kept := make([]int, 0, len(*siblings)+1)
	for _, s := range *siblings {
		if f.nearestAncestor(f.nodes[s].account.Number) == slot {
			f.nodes[s].parent = slot
			n.children = append(n.children, s)
			continue
		}
		kept = append(kept, s)
	}
	*siblings = append(kept, slot)
	return nil
}

// FindAccount locates an account anywhere in the forest.
func (f *Forest) FindAccount(number int) (*Node, error) {
	slot, ok := f.index[number]
	if !ok {
		return nil, &model.NotFoundError{Number: number}
	}
	return &Node{forest: f, slot: slot}, nil
}

// Roots returns the root account numbers in forest order.
func (f *Forest) Roots() []int {
	return f.numbers(f.roots)
}

// Children returns the child account numbers of an account in insertion order.
func (f *Forest) Children(number int) ([]int, error) {
	slot, ok := f.index[number]
	if !ok {
		return nil, &model.NotFoundError{Number: number}
	}
	return f.numbers(f.nodes[slot].children), nil
}

// WalkFunc is called once per account during Walk. The account's Transactions
// slice is shared with the forest and must not be modified.
type WalkFunc func(acct model.Account, depth int) error

// Walk visits every account depth-first: roots in forest order, children in
// insertion order. It stops at the first error fn returns.
func (f *Forest) Walk(fn WalkFunc) error {
	return f.walk(f.roots, 0, fn)
}

func (f *Forest) walk(slots []int, depth int, fn WalkFunc) error {
	for _, s := range slots {
		n := f.nodes[s]
		if err := fn(n.account, depth); err != nil {
			return err
		}
		if err := f.walk(n.children, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Accounts returns a depth-first snapshot of every account.
func (f *Forest) Accounts() []model.Account {
	accts := make([]model.Account, 0, len(f.nodes))
	_ = f.Walk(func(acct model.Account, _ int) error {
		accts = append(accts, acct.Clone())
		return nil
	})
	return accts
}

func (f *Forest) nearestAncestor(number int) int {
	for p := PlacementParent(number); p > 0; p = PlacementParent(p) {
		if slot, ok := f.index[p]; ok {
			return slot
		}
	}
	return noParent
}

func (f *Forest) childSlots(parent int) *[]int {
	if parent == noParent {
		return &f.roots
	}
	return &f.nodes[parent].children
}

func (f *Forest) numbers(slots []int) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = f.nodes[s].account.Number
	}
	return out
}

func validateDescription(description string) error {
	if strings.ContainsAny(description, "\r\n") {
		return &model.ValidationError{Field: "description", Reason: "must be a single line"}
	}
	return nil
}
