// Package storage persists transactions in SQLite behind the store's HTTP
// surface. Amounts are stored in their canonical two-decimal string form and
// dates in ISO YYYY-MM-DD, matching the wire formats.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/iamaugusto/contAi/internal/core"
)

const createdAtFormat = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertTransaction = `INSERT INTO transactions (date, description, amount, type) VALUES (?, ?, ?, ?)`

// CreateTransaction inserts a validated transaction and returns it with the
// store-assigned id and created_at.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, insertTransaction,
		tx.Date.String(),
		tx.Description,
		core.AmountString(tx.Amount),
		tx.Type.String(),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	created, err := r.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read back transaction %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", created.ID,
		"description", created.Description,
		"amount", core.AmountString(created.Amount),
		"type", created.Type.String(),
		"date", created.Date.String())

	return created, nil
}

const selectTransaction = `SELECT id, date, description, amount, type, created_at FROM transactions WHERE id = ?`

// GetTransaction returns one transaction by id, or core.ErrNotFound.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// ListTransactions returns all transactions. sortBy is "date" or
// "created_at", order "asc" or "desc"; anything else falls back to date
// ascending. Ties break on id so the order is stable.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, sortBy, order string) ([]core.Transaction, error) {
	col := "date"
	if sortBy == "created_at" {
		col = "created_at"
	}
	dir := "ASC"
	if order == "desc" {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT id, date, description, amount, type, created_at FROM transactions ORDER BY %s %s, id ASC`, col, dir)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

// DeleteTransaction removes one transaction. Reports core.ErrNotFound when no
// row matched.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx        core.Transaction
		date      string
		amount    string
		typ       string
		createdAt string
	)
	if err := row.Scan(&tx.ID, &date, &tx.Description, &amount, &typ, &createdAt); err != nil {
		return core.Transaction{}, err
	}

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	tx.Date = d

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	tx.Amount = amt
	tx.Type = core.TransactionType(typ)

	if ts, err := time.Parse(createdAtFormat, createdAt); err == nil {
		tx.CreatedAt = ts.UTC()
	} else if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		tx.CreatedAt = ts.UTC()
	}
	return tx, nil
}
