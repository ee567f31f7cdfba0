package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iamaugusto/contAi/internal/core"
)

func tx(id int64, date core.Date, desc, amount string, typ core.TransactionType) core.Transaction {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return core.Transaction{ID: id, Date: date, Description: desc, Amount: d, Type: typ}
}

func TestMatches(t *testing.T) {
	rent := tx(1, core.NewDate(2024, 3, 5), "Rent", "1000.00", core.Debit)

	cases := []struct {
		term string
		want bool
	}{
		{"", true},
		{"rent", true},  // description, case-insensitive
		{"RENT", true},
		{"ren", true},
		{"1000.00", true}, // amount string form
		{"000.0", true},
		{"debit", true}, // type name
		{"DEB", true},
		{"credit", false},
		{"salary", false},
		{"999", false},
	}
	for _, tc := range cases {
		if got := Matches(rent, tc.term); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	in := []core.Transaction{
		tx(1, core.NewDate(2024, 3, 5), "Rent", "1000.00", core.Debit),
		tx(2, core.NewDate(2024, 3, 10), "Salary", "3000.00", core.Credit),
		tx(3, core.NewDate(2024, 4, 1), "Rental deposit", "500.00", core.Debit),
	}
	got := Filter(in, "rent")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if len(in) != 3 {
		t.Fatal("input length changed")
	}

	// Empty term returns everything in order, as a fresh slice.
	all := Filter(in, "")
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	all[0].ID = 99
	if in[0].ID != 1 {
		t.Fatal("filter must not alias the input slice")
	}
}

func TestFilterNoMatch(t *testing.T) {
	in := []core.Transaction{
		tx(1, core.NewDate(2024, 3, 5), "Rent", "1000.00", core.Debit),
	}
	if got := Filter(in, "zzz"); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestMonthKeyAndLabel(t *testing.T) {
	d := core.NewDate(2024, 3, 5)
	if MonthKey(d) != "2024-03" {
		t.Fatalf("key = %q", MonthKey(d))
	}
	if MonthLabel(d) != "Março 2024" {
		t.Fatalf("label = %q", MonthLabel(d))
	}
	if MonthLabel(core.NewDate(2023, 12, 31)) != "Dezembro 2023" {
		t.Fatalf("label = %q", MonthLabel(core.NewDate(2023, 12, 31)))
	}
}
