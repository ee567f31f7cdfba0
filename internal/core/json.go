package core

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// transactionWire is the JSON shape of a transaction on the store API.
// Amount travels as a fixed two-decimal string ("1000.00") but is accepted
// as either a JSON number or a string on the way in.
type transactionWire struct {
	ID          int64           `json:"id,omitempty"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	w := struct {
		ID          int64           `json:"id,omitempty"`
		Date        string          `json:"date"`
		Description string          `json:"description"`
		Amount      string          `json:"amount"`
		Type        TransactionType `json:"type"`
		CreatedAt   *time.Time      `json:"created_at,omitempty"`
	}{
		ID:          t.ID,
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      AmountString(t.Amount),
		Type:        t.Type,
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		w.CreatedAt = &created
	}
	return json.Marshal(w)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var d Date
	if w.Date != "" {
		parsed, err := ParseDate(w.Date)
		if err != nil {
			return err
		}
		d = parsed
	}
	t.ID = w.ID
	t.Date = d
	t.Description = w.Description
	t.Amount = w.Amount.Round(2)
	t.Type = w.Type
	if w.CreatedAt != nil {
		t.CreatedAt = *w.CreatedAt
	} else {
		t.CreatedAt = time.Time{}
	}
	return nil
}

var _ json.Marshaler = Transaction{}
var _ json.Unmarshaler = (*Transaction)(nil)
