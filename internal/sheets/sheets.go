// Package sheets appends exported transactions to a Google Sheets
// spreadsheet. The export is append-only: the sheet is a mirror for
// reporting, never read back into the store.
package sheets

import (
	"context"
	"fmt"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/iamaugusto/contAi/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv builds a client from GOOGLE_SPREADSHEET_ID, GOOGLE_SHEET_NAME
// and GOOGLE_CREDENTIALS_FILE (a service account key file).
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SPREADSHEET_ID not set")
	}
	sheetName := os.Getenv("GOOGLE_SHEET_NAME")
	if sheetName == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_NAME not set")
	}
	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_FILE not set")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsFile(credentialsFile),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendTransaction appends one row (date, description, amount, type) to the
// configured sheet.
func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.Date.String(),
		tx.Description,
		core.AmountString(tx.Amount),
		tx.Type.String(),
	}}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append transaction %d to sheet: %w", tx.ID, err)
	}
	return nil
}
