package id

import (
	"fmt"

	"github.com/google/uuid"
)

// shortLen is how many characters of a transaction ID reports show.
const shortLen = 8

// NewTransactionID returns a fresh random transaction reference.
func NewTransactionID() string {
	return uuid.NewString()
}

// ParseTransactionID checks that s is a well-formed transaction reference.
func ParseTransactionID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	return u.String(), nil
}

// Short trims a transaction ID for display. "" stays "" and IDs shorter than
// the display width are returned unchanged.
func Short(txnID string) string {
	if len(txnID) <= shortLen {
		return txnID
	}
	return txnID[:shortLen]
}
