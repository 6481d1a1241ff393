package chart

import "github.com/cleared-dev/coa/internal/model"

// Node is a handle to one account in a Forest. It can read the account and
// edit its description; balances only change through the forest's
// transaction methods, and nodes cannot be moved.
type Node struct {
	forest *Forest
	slot   int
}

// Account returns a copy of the account data.
func (n *Node) Account() model.Account {
	return n.forest.nodes[n.slot].account.Clone()
}

// Number returns the account number.
func (n *Node) Number() int {
	return n.forest.nodes[n.slot].account.Number
}

// Parent returns the parent account number, or false for a root.
func (n *Node) Parent() (int, bool) {
	p := n.forest.nodes[n.slot].parent
	if p == noParent {
		return 0, false
	}
	return n.forest.nodes[p].account.Number, true
}

// Children returns the child account numbers in insertion order.
func (n *Node) Children() []int {
	return n.forest.numbers(n.forest.nodes[n.slot].children)
}

// Depth is 0 for roots.
func (n *Node) Depth() int {
	depth := 0
	for p := n.forest.nodes[n.slot].parent; p != noParent; p = n.forest.nodes[p].parent {
		depth++
	}
	return depth
}

// SetDescription replaces the account description.
func (n *Node) SetDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	n.forest.nodes[n.slot].account.Description = description
	return nil
}
