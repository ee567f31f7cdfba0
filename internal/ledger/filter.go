package ledger

import (
	"strings"

	"github.com/iamaugusto/contAi/internal/core"
)

// Matches reports whether a transaction matches the free-text search term.
// The term matches case-insensitively against the description, the
// two-decimal string form of the amount, and the type name. An empty term
// matches everything.
func Matches(tx core.Transaction, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(tx.Description), needle) {
		return true
	}
	if strings.Contains(core.AmountString(tx.Amount), needle) {
		return true
	}
	return strings.Contains(tx.Type.String(), needle)
}

// Filter returns the subsequence of txs matching term, preserving the input
// order. The input slice is never mutated.
func Filter(txs []core.Transaction, term string) []core.Transaction {
	if term == "" {
		out := make([]core.Transaction, len(txs))
		copy(out, txs)
		return out
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if Matches(tx, term) {
			out = append(out, tx)
		}
	}
	return out
}
