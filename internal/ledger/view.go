// Package ledger implements the transaction aggregation and pagination
// engine: filtering by a free-text term, fixed-size pagination with clamping,
// month grouping with credit/debit/balance subtotals, and page-level totals.
//
// Everything in this file is pure computation over a caller-owned list; the
// stateful part (the session that reacts to fetches and deletes) lives in
// session.go. All sums use exact decimal arithmetic.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/iamaugusto/contAi/internal/core"
)

// PageSize is the fixed number of transactions per page.
const PageSize = 10

// Emptiness tells the caller which empty message applies when a view has no
// groups. The engine only classifies; it never authors message text.
type Emptiness string

const (
	NotEmpty  Emptiness = ""
	NoRecords Emptiness = "no_records" // the list itself is empty
	NoMatches Emptiness = "no_matches" // a non-empty search term matched nothing
)

// Group is the transactions of one calendar month on the current page,
// together with their subtotals. Groups are rebuilt from scratch on every
// pass and never mutated incrementally.
type Group struct {
	Key          string // ISO year-month, e.g. "2024-03"
	Label        string // display label, e.g. "Março 2024"
	Transactions []core.Transaction
	TotalCredit  decimal.Decimal
	TotalDebit   decimal.Decimal
	Balance      decimal.Decimal // TotalCredit - TotalDebit
}

// Totals aggregates the groups rendered on one page. Deliberately
// page-scoped: it sums the rendered groups, not the whole filtered set.
type Totals struct {
	Credit  decimal.Decimal
	Debit   decimal.Decimal
	Balance decimal.Decimal
}

// View is the engine's output contract for one render cycle.
type View struct {
	Groups        []Group
	CurrentPage   int
	TotalPages    int
	FilteredCount int // size of the whole filtered set, across all pages
	Totals        Totals
	Empty         Emptiness
}

// TotalPages returns the page count for a filtered set of the given size.
// An empty set still has one (empty) page.
func TotalPages(filteredCount int) int {
	pages := (filteredCount + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces a requested page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageSlice returns the half-open slice of the filtered sequence belonging to
// the given (already clamped) page, preserving order.
func PageSlice(filtered []core.Transaction, page int) []core.Transaction {
	start := (page - 1) * PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// GroupByMonth partitions a page slice by calendar month. Group order follows
// the order in which each month first appears while scanning the slice; the
// slice is never re-sorted across groups.
func GroupByMonth(txs []core.Transaction) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, tx := range txs {
		key := MonthKey(tx.Date)
		i, ok := index[key]
		if !ok {
			groups = append(groups, Group{Key: key, Label: MonthLabel(tx.Date)})
			i = len(groups) - 1
			index[key] = i
		}
		g := &groups[i]
		g.Transactions = append(g.Transactions, tx)
		if tx.Type == core.Credit {
			g.TotalCredit = g.TotalCredit.Add(tx.Amount)
		} else {
			g.TotalDebit = g.TotalDebit.Add(tx.Amount)
		}
	}
	for i := range groups {
		groups[i].Balance = groups[i].TotalCredit.Sub(groups[i].TotalDebit)
	}
	return groups
}

// BuildView runs the full filter -> clamp -> slice -> group -> totals
// pipeline for one render cycle. It never fails: empty lists, empty search
// terms, and out-of-range pages are all normal inputs.
func BuildView(all []core.Transaction, term string, page int) View {
	filtered := Filter(all, term)
	totalPages := TotalPages(len(filtered))
	page = ClampPage(page, totalPages)

	v := View{
		Groups:        GroupByMonth(PageSlice(filtered, page)),
		CurrentPage:   page,
		TotalPages:    totalPages,
		FilteredCount: len(filtered),
	}
	for _, g := range v.Groups {
		v.Totals.Credit = v.Totals.Credit.Add(g.TotalCredit)
		v.Totals.Debit = v.Totals.Debit.Add(g.TotalDebit)
		v.Totals.Balance = v.Totals.Balance.Add(g.Balance)
	}
	if len(v.Groups) == 0 {
		if term != "" {
			v.Empty = NoMatches
		} else {
			v.Empty = NoRecords
		}
	}
	return v
}
