package ledger

import (
	"fmt"

	"github.com/iamaugusto/contAi/internal/core"
)

// Display month names. Grouping never depends on these: the group key is the
// locale-independent ISO year-month.
var monthNames = [12]string{
	"Janeiro",
	"Fevereiro",
	"Março",
	"Abril",
	"Maio",
	"Junho",
	"Julho",
	"Agosto",
	"Setembro",
	"Outubro",
	"Novembro",
	"Dezembro",
}

// MonthKey returns the sortable, groupable key for the calendar month a date
// belongs to, e.g. "2024-03".
func MonthKey(d core.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), d.Month())
}

// MonthLabel returns the presentation label for the month, e.g. "Março 2024".
func MonthLabel(d core.Date) string {
	return fmt.Sprintf("%s %d", monthNames[d.Month()-1], d.Year())
}
