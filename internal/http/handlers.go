package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iamaugusto/contAi/internal/core"
	"github.com/iamaugusto/contAi/internal/events"
	"github.com/iamaugusto/contAi/internal/ledger"
)

// Repository is the persistence surface the handlers need.
type Repository interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, sortBy, order string) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// EventPublisher emits lifecycle events after successful writes. A nil
// publisher disables eventing.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *events.TransactionEvent) error
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		slog.ErrorContext(r.Context(), "Decode transaction error", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	tx.ID = 0
	tx.Description = sanitizeInput(tx.Description)

	if err := tx.Validate(); err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Err.Error(), verr.Field)
		} else {
			writeError(w, http.StatusBadRequest, err.Error(), "")
		}
		return
	}

	created, err := s.repo.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction", "")
		return
	}

	s.publishEvent(r, events.NewTransactionEvent(events.ActionCreated, created.ID))

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	sortBy, order := parseSortParams(r)

	txs, err := s.repo.ListTransactions(r.Context(), sortBy, order)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions", "")
		return
	}

	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", "id")
		return
	}

	if err := s.repo.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found", "")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction", "")
		return
	}

	s.publishEvent(r, events.NewTransactionEvent(events.ActionDeleted, id))

	w.WriteHeader(http.StatusNoContent)
}

// viewGroup and viewResponse are the JSON shape of the rendered listing.
type viewGroup struct {
	Key          string             `json:"key"`
	Label        string             `json:"label"`
	Transactions []core.Transaction `json:"transactions"`
	TotalCredit  string             `json:"total_credit"`
	TotalDebit   string             `json:"total_debit"`
	Balance      string             `json:"balance"`
}

type viewResponse struct {
	Groups        []viewGroup `json:"groups"`
	CurrentPage   int         `json:"current_page"`
	TotalPages    int         `json:"total_pages"`
	FilteredCount int         `json:"filtered_count"`
	TotalCredit   string      `json:"total_credit"`
	TotalDebit    string      `json:"total_debit"`
	Balance       string      `json:"balance"`
	Empty         string      `json:"empty,omitempty"`
}

// handleTransactionView renders a paginated, filtered, month-grouped page of
// the ledger in one round trip.
func (s *Server) handleTransactionView(w http.ResponseWriter, r *http.Request) {
	search := sanitizeInput(r.URL.Query().Get("search"))
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			page = p
		}
	}

	txs, err := s.repo.ListTransactions(r.Context(), "date", "asc")
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions", "")
		return
	}

	view := ledger.BuildView(txs, search, page)

	resp := viewResponse{
		Groups:        make([]viewGroup, 0, len(view.Groups)),
		CurrentPage:   view.CurrentPage,
		TotalPages:    view.TotalPages,
		FilteredCount: view.FilteredCount,
		TotalCredit:   core.AmountString(view.Totals.Credit),
		TotalDebit:    core.AmountString(view.Totals.Debit),
		Balance:       core.AmountString(view.Totals.Balance),
	}
	if view.Empty != ledger.NotEmpty {
		resp.Empty = string(view.Empty)
	}
	for _, g := range view.Groups {
		resp.Groups = append(resp.Groups, viewGroup{
			Key:          g.Key,
			Label:        g.Label,
			Transactions: g.Transactions,
			TotalCredit:  core.AmountString(g.TotalCredit),
			TotalDebit:   core.AmountString(g.TotalDebit),
			Balance:      core.AmountString(g.Balance),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) publishEvent(r *http.Request, event *events.TransactionEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(r.Context(), event); err != nil {
		slog.WarnContext(r.Context(), "Publish transaction event failed",
			"error", err, "action", event.Action, "id", event.ID)
	}
}
