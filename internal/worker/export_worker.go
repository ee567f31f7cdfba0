// Package worker mirrors created transactions into a spreadsheet as
// lifecycle events arrive from the queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iamaugusto/contAi/internal/core"
	"github.com/iamaugusto/contAi/internal/events"
)

// TransactionGetter fetches a transaction from the store by id.
type TransactionGetter interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// RowAppender appends one transaction row to the export target.
type RowAppender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) error
}

type ExportWorker struct {
	store    TransactionGetter
	appender RowAppender
}

func NewExportWorker(store TransactionGetter, appender RowAppender) *ExportWorker {
	return &ExportWorker{store: store, appender: appender}
}

// HandleEvent processes one transaction lifecycle event. Returning an error
// requeues the event; situations that a retry cannot fix (record already
// deleted, deletion events, unknown actions) are logged and acknowledged.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *events.TransactionEvent) error {
	switch ev.Action {
	case events.ActionCreated:
		tx, err := w.store.GetTransaction(ctx, ev.ID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted before the export caught up; nothing to mirror.
			slog.WarnContext(ctx, "Transaction gone before export", "id", ev.ID, "event_id", ev.EventID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction %d: %w", ev.ID, err)
		}
		if err := w.appender.AppendTransaction(ctx, tx); err != nil {
			return fmt.Errorf("append transaction %d: %w", ev.ID, err)
		}
		slog.InfoContext(ctx, "Transaction exported",
			"id", tx.ID,
			"event_id", ev.EventID,
			"description", tx.Description)
		return nil

	case events.ActionDeleted:
		// The export sheet is append-only; deletions stay in the mirror.
		slog.InfoContext(ctx, "Skipping deletion event, export is append-only",
			"id", ev.ID, "event_id", ev.EventID)
		return nil

	default:
		slog.WarnContext(ctx, "Unknown event action", "action", ev.Action, "event_id", ev.EventID)
		return nil
	}
}
