package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/model"
)

// InsertTransaction persists a new transaction, stamping audit fields and
// deriving the dedup key if the caller has not set it. The partial unique
// index over active rows backs the pipeline's pre-insert duplicate check, so
// a concurrent duplicate that slips past the check still surfaces as
// common.ErrDuplicateTransaction rather than a bare constraint error.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.DedupKey == "" {
		txn.DedupKey = txn.GenerateDedupKey()
	}
	txn.StampCreate(s.now())

	var categoryName, categoryConfirmed any
	if txn.Category != nil {
		categoryName = txn.Category.Name()
		categoryConfirmed = txn.Category.IsConfirmed()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			date, amount, description, note, account_id,
			category_name, category_confirmed, dedup_key,
			created_date, last_updated_date, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		txn.Date,
		txn.Amount.String(),
		txn.Description,
		txn.Note,
		txn.AccountID,
		categoryName,
		categoryConfirmed,
		txn.DedupKey,
		txn.CreatedDate,
		txn.LastUpdatedDate,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: dedup key %s", common.ErrDuplicateTransaction, txn.DedupKey)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction ID: %w", err)
	}
	txn.ID = id

	slog.Info("created transaction",
		"id", txn.ID,
		"account_id", txn.AccountID,
		"dedup_key", txn.DedupKey)
	return nil
}

// TransactionExistsByDedupKey reports whether an active transaction with the
// given dedup key already exists.
func (s *SQLiteStorage) TransactionExistsByDedupKey(ctx context.Context, key string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(key, "key"); err != nil {
		return false, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM transactions WHERE dedup_key = ? AND is_active = 1
		)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check dedup key: %w", err)
	}
	return exists == 1, nil
}

// GetTransactionByID returns an active transaction by its id.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, amount, description, note, account_id,
		       category_name, category_confirmed, dedup_key,
		       created_date, last_updated_date, is_active
		FROM transactions
		WHERE id = ? AND is_active = 1`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transactions", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns all active transactions, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount, description, note, account_id,
		       category_name, category_confirmed, dedup_key,
		       created_date, last_updated_date, is_active
		FROM transactions
		WHERE is_active = 1
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

// SoftDeleteTransaction marks a transaction inactive, freeing its dedup key.
func (s *SQLiteStorage) SoftDeleteTransaction(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "transactions", id)
}

// HardDeleteTransaction permanently removes a transaction row.
func (s *SQLiteStorage) HardDeleteTransaction(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "transactions", id)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn               model.Transaction
		amount            string
		description       sql.NullString
		note              sql.NullString
		categoryName      sql.NullString
		categoryConfirmed sql.NullBool
		date              time.Time
	)

	err := row.Scan(
		&txn.ID, &date, &amount, &description, &note, &txn.AccountID,
		&categoryName, &categoryConfirmed, &txn.DedupKey,
		&txn.CreatedDate, &txn.LastUpdatedDate, &txn.IsActive,
	)
	if err != nil {
		return nil, err
	}

	txn.Date = date
	txn.Description = description.String
	txn.Note = note.String

	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}

	if categoryName.Valid {
		cat, catErr := model.NewCategory(categoryName.String, categoryConfirmed.Bool)
		if catErr != nil {
			return nil, fmt.Errorf("failed to rebuild category: %w", catErr)
		}
		txn.Category = &cat
	}

	return &txn, nil
}
