// Package client talks to the transaction store over HTTP, implementing the
// list / create / delete contract the aggregation session builds on. It keeps
// no local cache: every List is a fresh fetch.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iamaugusto/contAi/internal/core"
)

// ErrStoreUnavailable marks network failures and 5xx responses. Callers may
// surface it as a retryable condition; the client itself never retries.
var ErrStoreUnavailable = errors.New("transaction store unavailable")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// List fetches the full transaction list, date ascending.
func (c *Client) List(ctx context.Context) ([]core.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transactions", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("list transactions", resp)
	}

	var txs []core.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, fmt.Errorf("decode list response: %w", err))
	}
	return txs, nil
}

// Create submits a record lacking an id and returns it with the
// store-assigned id. The record is validated locally first so malformed
// input never leaves the process.
func (c *Client) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	body, err := json.Marshal(tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("encode transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return core.Transaction{}, errors.Join(ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return core.Transaction{}, c.statusError("create transaction", resp)
	}

	var created core.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return core.Transaction{}, errors.Join(ErrStoreUnavailable, fmt.Errorf("decode create response: %w", err))
	}
	return created, nil
}

// DeleteByID removes one transaction. A store 404 becomes core.ErrNotFound so
// callers can treat it as already removed.
func (c *Client) DeleteByID(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/transactions/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError("delete transaction", resp)
	}
	return nil
}

// errorBody is the store's JSON error shape.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (c *Client) statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return core.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		reason := body.Error
		if reason == "" {
			reason = "rejected by store"
		}
		field := body.Field
		if field == "" {
			field = "request"
		}
		return &core.ValidationError{Field: field, Err: errors.New(reason)}
	default:
		return fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, ErrStoreUnavailable)
	}
}
